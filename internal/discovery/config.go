package discovery

import (
	"github.com/aws/aws-sdk-go-v2/aws"
)

// Config is the resolved discovery rendezvous handed to the runtime,
// together with the preferred local bind address and the tcp-layer tuning
// overrides. Exactly one variant, selected by Mode, carries meaningful
// mode-specific fields.
type Config struct {
	Mode Mode `yaml:"mode"`

	// ModeMulticast
	MulticastGroup string `yaml:"multicastGroup,omitempty"`
	MulticastPort  int    `yaml:"multicastPort,omitempty"`

	// ModeS3
	S3Bucket      string          `yaml:"s3Bucket,omitempty"`
	S3Credentials aws.Credentials `yaml:"-"`

	// ModePath
	PathDir string `yaml:"pathDir,omitempty"`

	// ModeStaticIPs and ModeCloud. SharedAddresses marks a cloud-resolved
	// list that every node observes identically.
	Addresses       []string `yaml:"addresses,omitempty"`
	SharedAddresses bool     `yaml:"sharedAddresses,omitempty"`

	// Preferred local bind endpoint, best effort from the configured
	// interface list. Zero values mean "let the runtime choose".
	LocalAddress string `yaml:"localAddress,omitempty"`
	LocalPort    int    `yaml:"localPort,omitempty"`

	// tcp.* tuning overrides, all optional. Durations are carried as
	// milliseconds, the unit the runtime consumes.
	AckTimeoutMillis     int64 `yaml:"ackTimeoutMillis,omitempty"`
	SocketTimeoutMillis  int64 `yaml:"socketTimeoutMillis,omitempty"`
	NetworkTimeoutMillis int64 `yaml:"networkTimeoutMillis,omitempty"`
	JoinTimeoutMillis    int64 `yaml:"joinTimeoutMillis,omitempty"`
	ReconnectCount       int   `yaml:"reconnectCount,omitempty"`
	LocalPortRange       int   `yaml:"localPortRange,omitempty"`
}
