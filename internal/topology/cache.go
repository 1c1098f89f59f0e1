package topology

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/fluxgrid/fluxgrid/internal/apperr"
	"github.com/fluxgrid/fluxgrid/internal/config"
)

type CacheMode string

const (
	CachePartitioned CacheMode = "PARTITIONED"
	CacheReplicated  CacheMode = "REPLICATED"
)

type AtomicityMode string

const (
	AtomicityAtomic        AtomicityMode = "ATOMIC"
	AtomicityTransactional AtomicityMode = "TRANSACTIONAL"
)

type WriteSyncMode string

const (
	WriteSyncDefault   WriteSyncMode = ""
	WriteSyncPrimary   WriteSyncMode = "PRIMARY_SYNC"
	WriteSyncFull      WriteSyncMode = "FULL_SYNC"
	WriteSyncFullAsync WriteSyncMode = "FULL_ASYNC"
)

type EvictionPolicy string

const (
	EvictionNone EvictionPolicy = "none"
	EvictionLRU  EvictionPolicy = "lru"
)

// The four caches a grid node always defines.
const (
	SessionsCacheName  = "sessions"
	FSBlocksCacheName  = "fs-blocks"
	FSMetaCacheName    = "fs-meta"
	SchedulerCacheName = "scheduler-queue"
)

// FSBlocksAffinityBlocks groups this many filesystem blocks under one
// affinity key so contiguous blocks land on the same node.
const FSBlocksAffinityBlocks = 512

// CacheDefinition parameterizes one named distributed cache on the runtime.
type CacheDefinition struct {
	Name      string         `yaml:"name" validate:"required"`
	CacheMode CacheMode      `yaml:"cacheMode" validate:"required,oneof=PARTITIONED REPLICATED"`
	Atomicity AtomicityMode  `yaml:"atomicity" validate:"required,oneof=ATOMIC TRANSACTIONAL"`
	WriteSync WriteSyncMode  `yaml:"writeSync,omitempty" validate:"omitempty,oneof=PRIMARY_SYNC FULL_SYNC FULL_ASYNC"`
	Eviction  EvictionPolicy `yaml:"eviction" validate:"required,oneof=none lru"`
	Backups   int            `yaml:"backups" validate:"gte=0"`

	// OffHeapMax bounds off-heap cache memory in bytes; zero disables
	// off-heap storage.
	OffHeapMax int64 `yaml:"offHeapMax" validate:"gte=0"`

	// AffinityBlocks is the block grouping factor for placement; zero
	// means no grouping.
	AffinityBlocks int `yaml:"affinityBlocks,omitempty" validate:"gte=0"`
}

// BuildCaches produces the four fixed cache definitions with their
// defaults, then applies any per-cache attribute overrides. The fs-blocks
// cache keeps TRANSACTIONAL atomicity no matter what: the filesystem layer
// needs transactional semantics to keep block writes and metadata
// consistent, so an override attempt on that field is rejected rather than
// silently dropped.
func BuildCaches(reader config.Reader) ([]CacheDefinition, error) {
	caches := []CacheDefinition{
		{
			Name:      SessionsCacheName,
			CacheMode: CachePartitioned,
			Atomicity: AtomicityAtomic,
			Eviction:  EvictionNone,
		},
		{
			Name:           FSBlocksCacheName,
			CacheMode:      CachePartitioned,
			Atomicity:      AtomicityTransactional,
			Eviction:       EvictionLRU,
			Backups:        0,
			OffHeapMax:     0,
			AffinityBlocks: FSBlocksAffinityBlocks,
		},
		{
			Name:      FSMetaCacheName,
			CacheMode: CacheReplicated,
			Atomicity: AtomicityTransactional,
			WriteSync: WriteSyncPrimary,
			Eviction:  EvictionNone,
		},
		{
			Name:      SchedulerCacheName,
			CacheMode: CacheReplicated,
			Atomicity: AtomicityAtomic,
			Eviction:  EvictionNone,
		},
	}

	for i := range caches {
		if err := applyCacheOverrides(reader, &caches[i]); err != nil {
			return nil, err
		}
	}
	return caches, nil
}

// cacheSetters maps the lower-cased leaf of a per-cache attribute name
// onto the definition field it overrides.
var cacheSetters = map[string]func(*CacheDefinition, any) error{
	"cachemode": func(d *CacheDefinition, v any) error {
		return setEnum(v, []string{string(CachePartitioned), string(CacheReplicated)}, func(s string) {
			d.CacheMode = CacheMode(s)
		})
	},
	"atomicity": func(d *CacheDefinition, v any) error {
		return setEnum(v, []string{string(AtomicityAtomic), string(AtomicityTransactional)}, func(s string) {
			d.Atomicity = AtomicityMode(s)
		})
	},
	"writesync": func(d *CacheDefinition, v any) error {
		return setEnum(v, []string{string(WriteSyncPrimary), string(WriteSyncFull), string(WriteSyncFullAsync)}, func(s string) {
			d.WriteSync = WriteSyncMode(s)
		})
	},
	"eviction": func(d *CacheDefinition, v any) error {
		return setEnum(v, []string{string(EvictionNone), string(EvictionLRU)}, func(s string) {
			d.Eviction = EvictionPolicy(s)
		})
	},
	"backups": func(d *CacheDefinition, v any) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		d.Backups = n
		return nil
	},
	"offheapmax": func(d *CacheDefinition, v any) error {
		n, err := cast.ToInt64E(v)
		if err != nil {
			return err
		}
		d.OffHeapMax = n
		return nil
	},
	"affinityblocks": func(d *CacheDefinition, v any) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		d.AffinityBlocks = n
		return nil
	},
}

func applyCacheOverrides(reader config.Reader, def *CacheDefinition) error {
	for _, name := range reader.AttributeNames(def.Name + ".") {
		leaf := strings.ToLower(name[strings.LastIndex(name, ".")+1:])

		if def.Name == FSBlocksCacheName && leaf == "atomicity" {
			return apperr.ForAttribute(name, "fs-blocks atomicity is fixed at TRANSACTIONAL and cannot be overridden")
		}

		setter, ok := cacheSetters[leaf]
		if !ok {
			return apperr.ForAttribute(name, "unknown cache attribute")
		}
		if err := setter(def, reader.Get(name)); err != nil {
			return apperr.WrapAttribute(name, "invalid cache attribute value", err)
		}
	}
	return nil
}

func setEnum(v any, allowed []string, assign func(string)) error {
	s, err := cast.ToStringE(v)
	if err != nil {
		return err
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, a := range allowed {
		if s == strings.ToUpper(a) {
			assign(a)
			return nil
		}
	}
	return apperr.Newf("value %q not one of %v", s, allowed)
}
