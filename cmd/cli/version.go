package cli

import (
	"context"
	"runtime/debug"
	"strings"
)

const (
	developmentVersionConstant    = "dev"
	develBuildInfoVersionConstant = "(devel)"
	versionTemplateConstant       = applicationNameConstant + " version: {{.Version}}\n"
)

// Version is stamped at build time with -ldflags "-X github.com/temirov/laterem/cmd/cli.Version=<version>".
var Version = developmentVersionConstant

func resolveApplicationVersion(context.Context) string {
	if trimmedVersion := strings.TrimSpace(Version); len(trimmedVersion) > 0 && trimmedVersion != developmentVersionConstant {
		return trimmedVersion
	}
	if buildInfo, available := debug.ReadBuildInfo(); available {
		moduleVersion := strings.TrimSpace(buildInfo.Main.Version)
		if len(moduleVersion) > 0 && moduleVersion != develBuildInfoVersionConstant {
			return moduleVersion
		}
	}
	return developmentVersionConstant
}
