package main

import (
	"runtime/debug"

	"github.com/indiesemi/gate2jira/cmd"
)

// Version is stamped by release builds: -ldflags "-X main.Version=v1.2.0".
var Version = "dev"

// effectiveVersion prefers the stamped version, then the module version
// recorded by go install, then devel+<revision>[+dirty] from VCS info.
func effectiveVersion(v string) string {
	if v != "" && v != "dev" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		return mv
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	rev := settings["vcs.revision"]
	if rev == "" {
		return v
	}
	version := "devel+" + rev[:min(len(rev), 12)]
	if settings["vcs.modified"] == "true" {
		version += "+dirty"
	}
	return version
}

func main() {
	cmd.SetVersion(effectiveVersion(Version))
	cmd.Execute()
}
