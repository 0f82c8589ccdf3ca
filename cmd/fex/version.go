package main

import "runtime/debug"

// version is overridden at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // Build-time version
var version = buildVersion()

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision, modified string

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}

	if revision == "" {
		return "dev"
	}

	if len(revision) > 7 { //nolint:mnd // Short commit hash
		revision = revision[:7]
	}

	if modified == "true" {
		return revision + "-dirty"
	}

	return revision
}
