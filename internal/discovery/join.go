package discovery

import (
	"strconv"
	"strings"

	"github.com/fluxgrid/fluxgrid/internal/apperr"
	"github.com/fluxgrid/fluxgrid/pkg/utils"
)

// Mode identifies the discovery rendezvous mechanism a join descriptor
// selects. Exactly one mode is active per configuration build.
type Mode int

const (
	// ModeNone leaves discovery unconfigured; the runtime falls back to
	// its own default.
	ModeNone Mode = iota
	ModeMulticast
	ModeS3
	ModePath
	ModeStaticIPs
	ModeCloud
)

func (m Mode) String() string {
	switch m {
	case ModeMulticast:
		return "multicast"
	case ModeS3:
		return "s3"
	case ModePath:
		return "path"
	case ModeStaticIPs:
		return "ip"
	case ModeCloud:
		return "cloud"
	default:
		return "none"
	}
}

// MarshalYAML renders the mode by name rather than ordinal.
func (m Mode) MarshalYAML() (any, error) {
	return m.String(), nil
}

// Spec is a join descriptor parsed into its typed form. The string grammar
// lives only in Parse; everything downstream switches on Mode.
type Spec struct {
	Mode Mode

	Multicast MulticastSpec
	S3        S3Spec
	Path      PathSpec
	Static    StaticSpec
	Cloud     CloudSpec
}

type MulticastSpec struct {
	Group string // empty means library default group
	Port  int    // zero means library default port
}

type S3Spec struct {
	Bucket string
}

type PathSpec struct {
	Dir string
}

type StaticSpec struct {
	Addresses []string
}

type CloudSpec struct {
	Driver      string
	ClusterName string
}

// Parse turns a join descriptor string into a Spec. An unrecognized
// descriptor parses to ModeNone without error; the builder decides whether
// that deserves a warning. Malformed parameters of a recognized mode are
// configuration errors.
func Parse(join string) (Spec, error) {
	switch {
	case join == "":
		return Spec{Mode: ModeNone}, nil

	case join == "multicast":
		return Spec{Mode: ModeMulticast}, nil

	case strings.HasPrefix(join, "multicast:"):
		return parseMulticast(join)

	case strings.HasPrefix(join, "s3:"):
		bucket := strings.TrimPrefix(join[len("s3:"):], "/")
		return Spec{Mode: ModeS3, S3: S3Spec{Bucket: bucket}}, nil

	case strings.HasPrefix(join, "path:"):
		return Spec{Mode: ModePath, Path: PathSpec{Dir: join[len("path:"):]}}, nil

	case strings.HasPrefix(join, "ip:"):
		addrs := utils.SplitAddresses(join[len("ip:"):])
		if len(addrs) == 0 {
			return Spec{}, apperr.Wrap("join descriptor "+strconv.Quote(join), apperr.ErrNoAddresses)
		}
		return Spec{Mode: ModeStaticIPs, Static: StaticSpec{Addresses: addrs}}, nil

	case strings.HasPrefix(join, "cloud:"):
		parts := strings.Split(join[len("cloud:"):], ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return Spec{}, apperr.Newf("malformed cloud join descriptor %q, expected cloud:<driver>:<cluster>", join)
		}
		return Spec{Mode: ModeCloud, Cloud: CloudSpec{Driver: parts[0], ClusterName: parts[1]}}, nil

	default:
		return Spec{Mode: ModeNone}, nil
	}
}

func parseMulticast(join string) (Spec, error) {
	rest := join[len("multicast:"):]
	spec := Spec{Mode: ModeMulticast}

	group, portStr, hasPort := strings.Cut(rest, ":")
	spec.Multicast.Group = group
	if !hasPort {
		return spec, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Spec{}, apperr.Newf("invalid multicast port %q in join descriptor %q", portStr, join)
	}
	spec.Multicast.Port = port
	return spec, nil
}
