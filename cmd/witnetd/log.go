// Copyright (c) 2017-2018 The qitmeer developers

package main

import (
	"sort"

	"github.com/mestorlx/witnet-rust/database"
	"github.com/mestorlx/witnet-rust/log"
	"github.com/mestorlx/witnet-rust/node"
	"github.com/mestorlx/witnet-rust/node/service"
	"github.com/mestorlx/witnet-rust/services/blkmgr"
	"github.com/mestorlx/witnet-rust/services/epochmgr"
	"github.com/mestorlx/witnet-rust/services/storagemgr"
)

// subsystemLoggers maps each subsystem identifier to its logger setter.
var subsystemLoggers = map[string]func(log.Logger){
	"database":     database.UseLogger,
	"storagemgr":   storagemgr.UseLogger,
	"blkmanager":   blkmgr.UseLogger,
	"epochmanager": epochmgr.UseLogger,
	"node":         node.UseLogger,
	"service":      service.UseLogger,
}

// useLoggers binds every subsystem logger to one tagged with the network
// name.
func useLoggers(network string) {
	for _, name := range supportedSubsystems() {
		subsystemLoggers[name](log.New(log.Ctx{"module": name, "net": network}))
	}
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for name := range subsystemLoggers {
		subsystems = append(subsystems, name)
	}
	sort.Strings(subsystems)
	return subsystems
}
