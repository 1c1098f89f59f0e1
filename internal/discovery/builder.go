package discovery

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/fluxgrid/fluxgrid/internal/apperr"
	"github.com/fluxgrid/fluxgrid/internal/cloud"
	"github.com/fluxgrid/fluxgrid/internal/config"
)

// Builder turns the configured join descriptor into a discovery Config.
type Builder struct {
	reader   config.Reader
	creds    CredentialsLookup
	drivers  *cloud.Registry
	resolver *cloud.Resolver
	fs       afero.Fs
	logger   *slog.Logger
}

func NewBuilder(reader config.Reader, creds CredentialsLookup, drivers *cloud.Registry,
	resolver *cloud.Resolver, fs afero.Fs, logger *slog.Logger) *Builder {
	return &Builder{
		reader:   reader,
		creds:    creds,
		drivers:  drivers,
		resolver: resolver,
		fs:       fs,
		logger:   logger,
	}
}

// Build resolves the discovery rendezvous: preferred local address first
// (best effort), then the join-descriptor mode, then the tcp.* overrides.
func (b *Builder) Build(ctx context.Context) (*Config, error) {
	cfg := &Config{}

	if err := b.applyLocalAddress(cfg); err != nil {
		return nil, err
	}

	join := b.reader.ClusterJoin()
	spec, err := Parse(join)
	if err != nil {
		return nil, err
	}

	switch spec.Mode {
	case ModeNone:
		if join != "" {
			b.logger.Warn("unrecognized cluster join descriptor, discovery left unconfigured",
				slog.String("join", join))
		}

	case ModeMulticast:
		cfg.Mode = ModeMulticast
		cfg.MulticastGroup = spec.Multicast.Group
		cfg.MulticastPort = spec.Multicast.Port

	case ModeS3:
		creds, ok := b.creds.Lookup(ctx, b.reader)
		if !ok {
			return nil, apperr.Wrap("s3 discovery requires object store credentials", apperr.ErrMissingCredentials)
		}
		cfg.Mode = ModeS3
		cfg.S3Bucket = spec.S3.Bucket
		cfg.S3Credentials = creds

	case ModePath:
		// Idempotent: pre-existing directories are fine, only a real
		// I/O or permission failure aborts the build.
		if err := b.fs.MkdirAll(spec.Path.Dir, 0o755); err != nil {
			return nil, apperr.Wrap("cannot create shared discovery path "+spec.Path.Dir, err)
		}
		cfg.Mode = ModePath
		cfg.PathDir = spec.Path.Dir

	case ModeStaticIPs:
		cfg.Mode = ModeStaticIPs
		cfg.Addresses = spec.Static.Addresses

	case ModeCloud:
		driver, ok := b.drivers.Get(spec.Cloud.Driver)
		if !ok {
			return nil, apperr.Wrap("join descriptor names driver "+strconv.Quote(spec.Cloud.Driver), cloud.ErrUnknownDriver)
		}
		addrs, err := b.resolver.Resolve(ctx, driver, spec.Cloud.ClusterName, cfg.LocalAddress)
		if err != nil {
			return nil, err
		}
		cfg.Mode = ModeCloud
		cfg.Addresses = addrs
		cfg.SharedAddresses = true
	}

	if err := bindTCPAttributes(cfg, b.reader); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyLocalAddress records the first configured interface address as the
// preferred local bind endpoint. Absence is not an error; a malformed port
// suffix is.
func (b *Builder) applyLocalAddress(cfg *Config) error {
	addrs := b.reader.InterfaceAddresses()
	if len(addrs) == 0 {
		return nil
	}

	host, portStr, hasPort := strings.Cut(addrs[0], ":")
	cfg.LocalAddress = host
	if !hasPort {
		return nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return apperr.WrapAttribute(config.AttrInterfaces, "invalid local port "+strconv.Quote(portStr), err)
	}
	cfg.LocalPort = port
	return nil
}
