package grid

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/fluxgrid/fluxgrid/internal/apperr"
	"github.com/fluxgrid/fluxgrid/internal/discovery"
	"github.com/fluxgrid/fluxgrid/internal/topology"
)

// DefaultGroupName is the cluster group name used when the group attribute
// is unset.
const DefaultGroupName = "fluxgrid"

// Configuration is the composite bootstrap configuration handed to the
// runtime's Start call. It is built fresh on every BuildConfiguration and
// never mutated after assembly.
type Configuration struct {
	GroupName string      `yaml:"group" validate:"required"`
	Role      ClusterRole `yaml:"role" validate:"required"`
	NodeID    string      `yaml:"nodeId" validate:"required"`

	// Logger is the logger binding the runtime inherits.
	Logger *slog.Logger `yaml:"-" validate:"required"`

	// MetricsLogFrequencyMillis is the runtime's metrics log interval in
	// milliseconds.
	MetricsLogFrequencyMillis int64 `yaml:"metricsLogFrequencyMillis" validate:"gt=0"`

	WorkDir string `yaml:"workDir" validate:"required"`

	Discovery  *discovery.Config             `yaml:"discovery" validate:"required"`
	Caches     []topology.CacheDefinition    `yaml:"caches" validate:"required,dive"`
	Filesystem topology.FilesystemDefinition `yaml:"filesystem" validate:"required"`
}

// Validate checks struct tags plus the cross-field invariants: unique
// cache names, and filesystem cache references that resolve to defined
// caches.
func (c *Configuration) Validate(validate *validator.Validate) error {
	if !c.Role.Valid() {
		return apperr.Newf("invalid cluster role %q", c.Role)
	}
	if err := validate.Struct(c); err != nil {
		return apperr.Wrap("invalid grid configuration", err)
	}

	seen := make(map[string]bool, len(c.Caches))
	for _, cache := range c.Caches {
		if seen[cache.Name] {
			return apperr.Newf("duplicate cache name %q", cache.Name)
		}
		seen[cache.Name] = true
	}

	if !seen[c.Filesystem.MetaCacheName] {
		return apperr.Newf("filesystem meta cache %q is not a defined cache", c.Filesystem.MetaCacheName)
	}
	if !seen[c.Filesystem.DataCacheName] {
		return apperr.Newf("filesystem data cache %q is not a defined cache", c.Filesystem.DataCacheName)
	}
	return nil
}
