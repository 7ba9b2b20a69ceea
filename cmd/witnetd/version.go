// Copyright (c) 2017-2018 The qitmeer developers

package main

import (
	"fmt"
)

// semantic version of the daemon
const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0

	// appPreRelease is appended to the version with a dash when set.
	appPreRelease = "alpha"
)

// appBuild is set at link time with -ldflags "-X main.appBuild=..."
var appBuild string

func version() string {
	v := fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
	if appPreRelease != "" {
		v += "-" + appPreRelease
	}
	if appBuild != "" {
		v += "+" + appBuild
	}
	return v
}
