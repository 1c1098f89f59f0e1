package grid

// ClusterRole tags a node's function in the grid. It is set once at
// factory construction and carried on the configuration as a node
// attribute; it does not branch behavior anywhere in the bootstrap.
type ClusterRole string

const (
	RoleMaster ClusterRole = "master"
	RoleWorker ClusterRole = "worker"
)

func (r ClusterRole) Valid() bool {
	return r == RoleMaster || r == RoleWorker
}
