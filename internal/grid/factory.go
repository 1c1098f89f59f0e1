package grid

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/fluxgrid/fluxgrid/internal/cloud"
	"github.com/fluxgrid/fluxgrid/internal/config"
	"github.com/fluxgrid/fluxgrid/internal/discovery"
	"github.com/fluxgrid/fluxgrid/internal/topology"
	"github.com/fluxgrid/fluxgrid/pkg/logging"
)

// DefaultMetricsLogFrequency is the runtime metrics log interval used when
// the metricsLogFrequency attribute is unset.
const DefaultMetricsLogFrequency = 5 * time.Minute

var ErrNoRuntime = errors.New("no grid runtime installed")

// Process-wide runtime tuning flags, consumed by the external runtime via
// its environment. Setting them is idempotent and happens on every build.
const (
	envUpdateCheckOff  = "GRID_UPDATE_NOTIFIER_OFF"
	envBannerOff       = "GRID_BANNER_OFF"
	envShutdownHookOff = "GRID_SHUTDOWN_HOOK_OFF"
)

// active is the process-wide factory cell: written once at first factory
// construction, read-only thereafter.
var active atomic.Pointer[Factory]

// Active returns the first factory constructed in this process, or nil.
func Active() *Factory {
	return active.Load()
}

// ActiveConfiguration returns the configuration most recently built by the
// active factory, or nil when nothing has been built yet.
func ActiveConfiguration() *Configuration {
	f := Active()
	if f == nil {
		return nil
	}
	return f.lastCfg.Load()
}

// Factory assembles grid configurations for one node role and starts the
// runtime with them.
type Factory struct {
	role    ClusterRole
	reader  config.Reader
	runtime Runtime

	creds   discovery.CredentialsLookup
	drivers *cloud.Registry
	policy  cloud.RetryPolicy
	fs      afero.Fs

	logger   *slog.Logger
	validate *validator.Validate

	lastCfg atomic.Pointer[Configuration]
}

type Option func(*Factory)

// WithRuntime installs the runtime Start is delegated to.
func WithRuntime(rt Runtime) Option {
	return func(f *Factory) { f.runtime = rt }
}

func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) { f.logger = logger }
}

// WithDrivers installs the cloud driver registry used by cloud: joins.
func WithDrivers(r *cloud.Registry) Option {
	return func(f *Factory) { f.drivers = r }
}

// WithCredentials replaces the credential lookup used by s3: joins.
func WithCredentials(c discovery.CredentialsLookup) Option {
	return func(f *Factory) { f.creds = c }
}

// WithRetryPolicy replaces the cloud IP poll policy, mainly for tests.
func WithRetryPolicy(p cloud.RetryPolicy) Option {
	return func(f *Factory) { f.policy = p }
}

// WithFilesystem replaces the filesystem used for path: rendezvous
// directories, mainly for tests.
func WithFilesystem(fs afero.Fs) Option {
	return func(f *Factory) { f.fs = fs }
}

// NewFactory builds a configuration factory for the given role. The first
// factory constructed becomes the process-wide active factory.
func NewFactory(role ClusterRole, reader config.Reader, opts ...Option) *Factory {
	f := &Factory{
		role:     role,
		reader:   reader,
		creds:    discovery.EnvCredentials{},
		drivers:  cloud.NewRegistry(),
		policy:   cloud.DefaultRetryPolicy(),
		fs:       afero.NewOsFs(),
		logger:   slog.Default(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.ComponentLogger(f.logger, "grid-bootstrap", slog.String(logging.LogRole, string(role)))

	active.CompareAndSwap(nil, f)
	return f
}

// BuildConfiguration assembles a fresh Configuration from the attribute
// reader: discovery strategy, cache topology and filesystem parameters.
func (f *Factory) BuildConfiguration(ctx context.Context) (*Configuration, error) {
	setProcessTuningFlags()

	group := f.reader.GetString(config.AttrGroup, DefaultGroupName)

	metricsFreq, err := f.reader.GetDuration(config.AttrMetricsLog, DefaultMetricsLogFrequency)
	if err != nil {
		return nil, err
	}

	workDir := f.reader.GetString(config.AttrWorkDir, filepath.Join(os.TempDir(), "fluxgrid"))

	resolver := cloud.NewResolver(f.policy, f.logger)
	discoveryBuilder := discovery.NewBuilder(f.reader, f.creds, f.drivers, resolver, f.fs, f.logger)
	disc, err := discoveryBuilder.Build(ctx)
	if err != nil {
		return nil, err
	}

	caches, err := topology.BuildCaches(f.reader)
	if err != nil {
		return nil, err
	}

	fsDef, err := topology.BuildFilesystem(f.reader)
	if err != nil {
		return nil, err
	}

	cfg := &Configuration{
		GroupName:                 group,
		Role:                      f.role,
		NodeID:                    uuid.NewString(),
		Logger:                    f.logger,
		MetricsLogFrequencyMillis: metricsFreq.Milliseconds(),
		WorkDir:                   workDir,
		Discovery:                 disc,
		Caches:                    caches,
		Filesystem:                fsDef,
	}
	if err := cfg.Validate(f.validate); err != nil {
		return nil, err
	}

	f.lastCfg.Store(cfg)
	f.logger.Info("grid configuration assembled",
		slog.String(logging.LogGroup, group),
		slog.String("discovery", disc.Mode.String()))
	return cfg, nil
}

// Start builds a configuration and hands it to the runtime. Startup
// failures (a group name already bound, for instance) surface unchanged;
// they are fatal and not retried.
func (f *Factory) Start(ctx context.Context) (Cluster, error) {
	if f.runtime == nil {
		return nil, ErrNoRuntime
	}

	cfg, err := f.BuildConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	return f.runtime.Start(ctx, cfg)
}

func setProcessTuningFlags() {
	os.Setenv(envUpdateCheckOff, "true")
	os.Setenv(envBannerOff, "true")
	os.Setenv(envShutdownHookOff, "true")
}
