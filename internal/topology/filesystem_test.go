package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxgrid/fluxgrid/internal/config"
)

func TestBuildFilesystem_Defaults(t *testing.T) {
	def, err := BuildFilesystem(config.NewAttributeReader(nil))
	require.NoError(t, err)

	assert.Equal(t, FilesystemName, def.Name)
	assert.Equal(t, "PRIMARY", def.Mode)
	assert.Equal(t, FSMetaCacheName, def.MetaCacheName)
	assert.Equal(t, FSBlocksCacheName, def.DataCacheName)
	assert.Equal(t, DefaultBlockSize, def.BlockSize)
	assert.Equal(t, DefaultPerNodeBatchSize, def.PerNodeBatchSize)
	assert.Equal(t, DefaultPerNodeParallelBatchCount, def.PerNodeParallelBatchCount)
}

func TestBuildFilesystem_Overrides(t *testing.T) {
	reader := config.NewAttributeReader(map[string]any{
		"gridfs": map[string]any{
			"blockSize":        65536,
			"perNodeBatchSize": "256",
		},
	})

	def, err := BuildFilesystem(reader)
	require.NoError(t, err)
	assert.Equal(t, 65536, def.BlockSize)
	assert.Equal(t, 256, def.PerNodeBatchSize)
	assert.Equal(t, DefaultPerNodeParallelBatchCount, def.PerNodeParallelBatchCount)
}

func TestBuildFilesystem_BadValue(t *testing.T) {
	reader := config.NewAttributeReader(map[string]any{
		"gridfs": map[string]any{"blockSize": "huge"},
	})

	_, err := BuildFilesystem(reader)
	require.Error(t, err)
}
