package topology

import (
	"github.com/fluxgrid/fluxgrid/internal/config"
)

// FilesystemName is the logical name of the distributed filesystem and the
// attribute scope of its overrides (gridfs.blockSize and friends).
const FilesystemName = "gridfs"

const (
	DefaultBlockSize                 = 128 * 1024
	DefaultPerNodeBatchSize          = 512
	DefaultPerNodeParallelBatchCount = 16
)

// FilesystemDefinition parameterizes the distributed filesystem layer. It
// references the block-store caches by name; the caches themselves are
// defined once in the cache list and never duplicated here.
type FilesystemDefinition struct {
	Name string `yaml:"name" validate:"required"`
	Mode string `yaml:"mode" validate:"required"`

	MetaCacheName string `yaml:"metaCache" validate:"required"`
	DataCacheName string `yaml:"dataCache" validate:"required"`

	BlockSize                 int `yaml:"blockSize" validate:"gt=0"`
	PerNodeBatchSize          int `yaml:"perNodeBatchSize" validate:"gt=0"`
	PerNodeParallelBatchCount int `yaml:"perNodeParallelBatchCount" validate:"gt=0"`
}

// BuildFilesystem produces the filesystem definition with defaults and
// attribute overrides applied.
func BuildFilesystem(reader config.Reader) (FilesystemDefinition, error) {
	def := FilesystemDefinition{
		Name:          FilesystemName,
		Mode:          "PRIMARY",
		MetaCacheName: FSMetaCacheName,
		DataCacheName: FSBlocksCacheName,
	}

	var err error
	if def.BlockSize, err = reader.GetInt(FilesystemName+".blockSize", DefaultBlockSize); err != nil {
		return FilesystemDefinition{}, err
	}
	if def.PerNodeBatchSize, err = reader.GetInt(FilesystemName+".perNodeBatchSize", DefaultPerNodeBatchSize); err != nil {
		return FilesystemDefinition{}, err
	}
	if def.PerNodeParallelBatchCount, err = reader.GetInt(FilesystemName+".perNodeParallelBatchCount", DefaultPerNodeParallelBatchCount); err != nil {
		return FilesystemDefinition{}, err
	}
	return def, nil
}
