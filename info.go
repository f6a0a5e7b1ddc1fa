package juliafx

// Version is the juliafx release version.
const Version = "0.1.0"

// PluginInfo describes the effect to a host application.
type PluginInfo struct {
	DisplayName string
	Author      string
	Copyright   string
	Version     string
	Submenu     string
	Website     string
}

// Info returns the effect description shown by hosts.
func Info() PluginInfo {
	return PluginInfo{
		DisplayName: "Julia 4D",
		Author:      "The gogpu Authors",
		Copyright:   "Copyright 2026 The gogpu Authors",
		Version:     Version,
		Submenu:     "Render",
		Website:     "https://github.com/gogpu/juliafx",
	}
}
