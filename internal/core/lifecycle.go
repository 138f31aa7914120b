package core

import (
	"context"

	"gopkg.in/yaml.v3"
)

// Configurable is implemented by modules that accept YAML configuration.
// The node is the module's entry under "modules:".
type Configurable interface {
	Configure(node *yaml.Node) error
}

// Provisioner is implemented by modules that need setup after
// configuration: defaults, opening stores, registering services.
type Provisioner interface {
	Provision(ctx *AppContext) error
}

// Validator is implemented by modules that can check their configuration.
// Validate must not have side effects.
type Validator interface {
	Validate() error
}

// Starter is implemented by modules that run background work.
type Starter interface {
	Start() error
}

// Stopper is implemented by modules holding resources. Stop is called in
// reverse start order.
type Stopper interface {
	Stop(ctx context.Context) error
}
