// Copyright (c) 2017-2018 The qitmeer developers

// Package api describes the services a node offers to RPC servers.
package api

import "fmt"

// API describes the set of methods offered over the RPC interface
type API struct {
	NameSpace string      // namespace under which the rpc methods of Service are exposed
	Service   interface{} // receiver instance which holds the methods
	Public    bool        // indication if the methods must be considered safe for public use
}

// String returns the namespace and the receiver type of the service.
func (a API) String() string {
	return fmt.Sprintf("%s(%T)", a.NameSpace, a.Service)
}
