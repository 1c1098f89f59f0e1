package config

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/fluxgrid/fluxgrid/internal/apperr"
	"github.com/fluxgrid/fluxgrid/pkg/utils"
)

// Well-known attribute names consumed by the bootstrap builders.
const (
	AttrJoin       = "join"
	AttrGroup      = "group"
	AttrInterfaces = "network.interfaces"
	AttrWorkDir    = "workDir"
	AttrMetricsLog = "metricsLogFrequency"
	AttrAccessKey  = "accessKey"
	AttrSecretKey  = "secretKey"
)

// Reader is the layered attribute lookup the bootstrap builders consume.
// Explicit settings take precedence over process environment variables;
// dotted attribute names map onto env vars with "." replaced by "_"
// (case-insensitive).
type Reader interface {
	// Get returns the raw configured value, or nil when unset.
	Get(name string) any

	GetString(name string, fallback string) string
	GetInt(name string, fallback int) (int, error)
	GetDuration(name string, fallback time.Duration) (time.Duration, error)
	IsSet(name string) bool

	// AttributeNames returns the explicitly configured attribute names
	// under a dotted prefix, sorted. Environment variables cannot be
	// enumerated portably, so they participate in point lookups only.
	AttributeNames(prefix string) []string

	// InterfaceAddresses returns the configured local network interface
	// address list, possibly empty.
	InterfaceAddresses() []string

	// ClusterJoin returns the join descriptor string, or "" when unset.
	ClusterJoin() string
}

// AttributeReader backs Reader with a viper instance: explicit settings are
// set at the highest precedence level and AutomaticEnv fills the rest.
type AttributeReader struct {
	v     *viper.Viper
	names []string // explicit attribute names, sorted
}

// NewAttributeReader builds a reader over the given settings map. Nested
// maps are flattened into dotted attribute names.
func NewAttributeReader(settings map[string]any) *AttributeReader {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	flat := make(map[string]any)
	flatten("", settings, flat)

	names := make([]string, 0, len(flat))
	for name, value := range flat {
		v.Set(name, value)
		names = append(names, name)
	}
	sort.Strings(names)

	return &AttributeReader{v: v, names: names}
}

func flatten(prefix string, value any, out map[string]any) {
	nested, ok := value.(map[string]any)
	if !ok {
		if prefix != "" {
			out[prefix] = value
		}
		return
	}
	for k, v := range nested {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		flatten(name, v, out)
	}
}

func (r *AttributeReader) Get(name string) any {
	return r.v.Get(name)
}

func (r *AttributeReader) GetString(name string, fallback string) string {
	if !r.v.IsSet(name) {
		return fallback
	}
	return r.v.GetString(name)
}

func (r *AttributeReader) GetInt(name string, fallback int) (int, error) {
	if !r.v.IsSet(name) {
		return fallback, nil
	}
	n, err := cast.ToIntE(r.v.Get(name))
	if err != nil {
		return 0, apperr.WrapAttribute(name, "not a valid integer", err)
	}
	return n, nil
}

func (r *AttributeReader) GetDuration(name string, fallback time.Duration) (time.Duration, error) {
	if !r.v.IsSet(name) {
		return fallback, nil
	}
	d, err := CoerceDuration(r.v.Get(name))
	if err != nil {
		return 0, apperr.WrapAttribute(name, "not a valid duration", err)
	}
	return d, nil
}

func (r *AttributeReader) IsSet(name string) bool {
	return r.v.IsSet(name)
}

func (r *AttributeReader) AttributeNames(prefix string) []string {
	var out []string
	for _, name := range r.names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

func (r *AttributeReader) InterfaceAddresses() []string {
	raw := r.Get(AttrInterfaces)
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return utils.SplitAddresses(v)
	default:
		if list, err := cast.ToStringSliceE(raw); err == nil {
			return list
		}
		return utils.SplitAddresses(cast.ToString(raw))
	}
}

func (r *AttributeReader) ClusterJoin() string {
	return r.GetString(AttrJoin, "")
}

// CoerceDuration converts a configured value into a time.Duration. Bare
// numbers are taken as milliseconds; strings may carry a unit suffix
// ("5m", "250ms") or be a bare millisecond count.
func CoerceDuration(value any) (time.Duration, error) {
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return time.Duration(n) * time.Millisecond, nil
		}
		return cast.ToDurationE(v)
	default:
		n, err := cast.ToInt64E(value)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * time.Millisecond, nil
	}
}
