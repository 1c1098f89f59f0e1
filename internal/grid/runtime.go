package grid

import "context"

// Runtime is the external grid runtime this module parameterizes. It owns
// membership, consensus, cache consistency and data movement; the
// Configuration handed to Start transfers ownership to it.
type Runtime interface {
	Start(ctx context.Context, cfg *Configuration) (Cluster, error)
}

// Cluster is the opaque handle a started runtime returns.
type Cluster interface {
	LocalNodeID() string
	Stop(ctx context.Context) error
}
