// Package core provides the module system the atvremote daemon is built
// from: a registry of module constructors, a shared AppContext, and an App
// that drives modules through their lifecycle.
package core

// ModuleID identifies a module, namespaced with dots (e.g. "gateway.http").
type ModuleID string

// ModuleInfo describes a registered module.
type ModuleInfo struct {
	ID ModuleID

	// New returns a fresh, unconfigured instance.
	New func() Module
}

// Module is implemented by everything the registry can instantiate.
type Module interface {
	ModuleInfo() ModuleInfo
}
