package discovery

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxgrid/fluxgrid/internal/apperr"
	"github.com/fluxgrid/fluxgrid/internal/cloud"
	"github.com/fluxgrid/fluxgrid/internal/config"
	"github.com/fluxgrid/fluxgrid/pkg/logging"
)

type stubCreds struct {
	creds aws.Credentials
	ok    bool
}

func (s stubCreds) Lookup(ctx context.Context, reader config.Reader) (aws.Credentials, bool) {
	return s.creds, s.ok
}

type stubDriver struct {
	ips []string
	err error
}

func (d *stubDriver) ListPrivateIPs(ctx context.Context, clusterName string) ([]string, error) {
	return d.ips, d.err
}

type builderDeps struct {
	creds   CredentialsLookup
	drivers *cloud.Registry
	fs      afero.Fs
}

func newTestBuilder(t *testing.T, settings map[string]any, deps builderDeps) *Builder {
	t.Helper()

	if deps.creds == nil {
		deps.creds = stubCreds{}
	}
	if deps.drivers == nil {
		deps.drivers = cloud.NewRegistry()
	}
	if deps.fs == nil {
		deps.fs = afero.NewMemMapFs()
	}

	// Instant retry policy so cloud tests never block.
	clock := time.Unix(0, 0)
	policy := cloud.RetryPolicy{
		MaxWait:      5 * time.Second,
		PollInterval: 100 * time.Millisecond,
		Now:          func() time.Time { return clock },
		Sleep:        func(d time.Duration) { clock = clock.Add(d) },
	}

	logger := logging.NewTestLogger(slog.LevelError, true)
	resolver := cloud.NewResolver(policy, logger)
	reader := config.NewAttributeReader(settings)
	return NewBuilder(reader, deps.creds, deps.drivers, resolver, deps.fs, logger)
}

func TestBuilder_Multicast(t *testing.T) {
	b := newTestBuilder(t, map[string]any{"join": "multicast:228.1.2.4:4800"}, builderDeps{})

	cfg, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeMulticast, cfg.Mode)
	assert.Equal(t, "228.1.2.4", cfg.MulticastGroup)
	assert.Equal(t, 4800, cfg.MulticastPort)
}

func TestBuilder_S3(t *testing.T) {
	t.Run("missing credentials is fatal", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{"join": "s3:mybucket"}, builderDeps{creds: stubCreds{ok: false}})

		_, err := b.Build(context.Background())
		require.ErrorIs(t, err, apperr.ErrMissingCredentials)
	})

	t.Run("credentials from attributes", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{
			"join":      "s3:/mybucket",
			"accessKey": "AKIA123",
			"secretKey": "shhh",
		}, builderDeps{creds: EnvCredentials{}})

		cfg, err := b.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ModeS3, cfg.Mode)
		assert.Equal(t, "mybucket", cfg.S3Bucket)
		assert.Equal(t, "AKIA123", cfg.S3Credentials.AccessKeyID)
		assert.Equal(t, "shhh", cfg.S3Credentials.SecretAccessKey)
	})
}

func TestBuilder_Path(t *testing.T) {
	fs := afero.NewMemMapFs()
	b := newTestBuilder(t, map[string]any{"join": "path:/var/run/grid"}, builderDeps{fs: fs})

	cfg, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModePath, cfg.Mode)
	assert.Equal(t, "/var/run/grid", cfg.PathDir)

	exists, err := afero.DirExists(fs, "/var/run/grid")
	require.NoError(t, err)
	assert.True(t, exists)

	// Pre-existing directory never fails.
	_, err = b.Build(context.Background())
	require.NoError(t, err)
}

func TestBuilder_StaticIPs(t *testing.T) {
	b := newTestBuilder(t, map[string]any{"join": "ip:10.0.0.1, 10.0.0.2"}, builderDeps{})

	cfg, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeStaticIPs, cfg.Mode)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.Addresses)
	assert.False(t, cfg.SharedAddresses)
}

func TestBuilder_Cloud(t *testing.T) {
	t.Run("resolved addresses are marked shared", func(t *testing.T) {
		drivers := cloud.NewRegistry()
		drivers.Register("aws", &stubDriver{ips: []string{"10.0.0.2", "10.0.0.3"}})
		b := newTestBuilder(t, map[string]any{
			"join":    "cloud:aws:mycluster",
			"network": map[string]any{"interfaces": "10.0.0.1"},
		}, builderDeps{drivers: drivers})

		cfg, err := b.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ModeCloud, cfg.Mode)
		assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, cfg.Addresses)
		assert.True(t, cfg.SharedAddresses)
	})

	t.Run("unknown driver is fatal", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{"join": "cloud:gcp:mycluster"}, builderDeps{})

		_, err := b.Build(context.Background())
		require.ErrorIs(t, err, cloud.ErrUnknownDriver)
	})

	t.Run("driver failure propagates unretried", func(t *testing.T) {
		boom := errors.New("permission denied")
		drivers := cloud.NewRegistry()
		drivers.Register("aws", &stubDriver{err: boom})
		b := newTestBuilder(t, map[string]any{"join": "cloud:aws:mycluster"}, builderDeps{drivers: drivers})

		_, err := b.Build(context.Background())
		require.ErrorIs(t, err, boom)
	})
}

func TestBuilder_UnknownJoinLeavesDiscoveryUnconfigured(t *testing.T) {
	b := newTestBuilder(t, map[string]any{"join": "zookeeper:localhost:2181"}, builderDeps{})

	cfg, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeNone, cfg.Mode)
}

func TestBuilder_LocalAddress(t *testing.T) {
	t.Run("host and port split from first interface", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{
			"join":    "multicast",
			"network": map[string]any{"interfaces": "10.0.0.5:47500, 10.0.0.6"},
		}, builderDeps{})

		cfg, err := b.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.5", cfg.LocalAddress)
		assert.Equal(t, 47500, cfg.LocalPort)
	})

	t.Run("host only", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{
			"network": map[string]any{"interfaces": "10.0.0.5"},
		}, builderDeps{})

		cfg, err := b.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.5", cfg.LocalAddress)
		assert.Zero(t, cfg.LocalPort)
	})

	t.Run("malformed port is fatal", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{
			"network": map[string]any{"interfaces": "10.0.0.5:web"},
		}, builderDeps{})

		_, err := b.Build(context.Background())
		require.Error(t, err)
		var cfgErr *apperr.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestBindTCPAttributes(t *testing.T) {
	t.Run("known tunables apply with millisecond coercion", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{
			"join": "multicast",
			"tcp": map[string]any{
				"ackTimeout":     "5s",
				"networkTimeout": "7000",
				"reconnectCount": 7,
				"localPortRange": "20",
			},
		}, builderDeps{})

		cfg, err := b.Build(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(5000), cfg.AckTimeoutMillis)
		assert.Equal(t, int64(7000), cfg.NetworkTimeoutMillis)
		assert.Equal(t, 7, cfg.ReconnectCount)
		assert.Equal(t, 20, cfg.LocalPortRange)
	})

	t.Run("unknown tunable fails naming the attribute", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{
			"join": "multicast",
			"tcp":  map[string]any{"ackTimeut": "5s"},
		}, builderDeps{})

		_, err := b.Build(context.Background())
		require.Error(t, err)
		var cfgErr *apperr.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "tcp.ackTimeut", cfgErr.Attribute)
	})

	t.Run("bad tunable value fails", func(t *testing.T) {
		b := newTestBuilder(t, map[string]any{
			"join": "multicast",
			"tcp":  map[string]any{"reconnectCount": "many"},
		}, builderDeps{})

		_, err := b.Build(context.Background())
		require.Error(t, err)
	})
}
