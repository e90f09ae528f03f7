// SPDX-License-Identifier: MIT
//
// Package build carries the metadata embedded at link time: application
// name, version, commit and build timestamp. It feeds the CLI's --version
// output and the startup log line.
package build

import (
	"errors"
	"fmt"
)

const description = "List host audio input and output devices"

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

func (f *ldFlags) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", f.Name, f.Version, f.Commit, f.Time)
}

// Package-level variables for build information. These are populated by
// -ldflags during compilation, for example:
//
//	go build -ldflags "-X audiodev/pkg/build.buildVersion=0.1.0"
//
// Development builds keep the defaults below.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:        "audiodev",
		Description: description,
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
)

// Initialize copies the ldflags variables that were set into the build
// information. Missing flags keep their development defaults and are
// reported together in the returned error.
func Initialize() error {
	var errs []error
	set := func(dst *string, v, flag string) {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", flag))
			return
		}
		*dst = v
	}

	set(&buildFlags.Name, buildName, "BuildName")
	set(&buildFlags.Time, buildTime, "BuildTime")
	set(&buildFlags.Commit, buildCommit, "BuildCommit")
	set(&buildFlags.Version, buildVersion, "BuildVersion")

	return errors.Join(errs...)
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
