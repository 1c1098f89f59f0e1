package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxgrid/fluxgrid/internal/apperr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		join      string
		expected  Spec
		expectErr bool
	}{
		{name: "empty", join: "", expected: Spec{Mode: ModeNone}},
		{name: "bare multicast", join: "multicast", expected: Spec{Mode: ModeMulticast}},
		{
			name:     "multicast with group",
			join:     "multicast:228.1.2.4",
			expected: Spec{Mode: ModeMulticast, Multicast: MulticastSpec{Group: "228.1.2.4"}},
		},
		{
			name:     "multicast with group and port",
			join:     "multicast:228.1.2.4:4800",
			expected: Spec{Mode: ModeMulticast, Multicast: MulticastSpec{Group: "228.1.2.4", Port: 4800}},
		},
		{
			name:     "multicast default group with port",
			join:     "multicast::4800",
			expected: Spec{Mode: ModeMulticast, Multicast: MulticastSpec{Port: 4800}},
		},
		{name: "multicast bad port", join: "multicast:228.1.2.4:nope", expectErr: true},
		{name: "s3 bucket", join: "s3:mybucket", expected: Spec{Mode: ModeS3, S3: S3Spec{Bucket: "mybucket"}}},
		{name: "s3 leading slash stripped", join: "s3:/mybucket", expected: Spec{Mode: ModeS3, S3: S3Spec{Bucket: "mybucket"}}},
		{name: "path", join: "path:/var/run/grid", expected: Spec{Mode: ModePath, Path: PathSpec{Dir: "/var/run/grid"}}},
		{
			name:     "ip comma separated",
			join:     "ip:10.0.0.1, 10.0.0.2",
			expected: Spec{Mode: ModeStaticIPs, Static: StaticSpec{Addresses: []string{"10.0.0.1", "10.0.0.2"}}},
		},
		{
			name:     "ip space separated",
			join:     "ip:10.0.0.1 10.0.0.2",
			expected: Spec{Mode: ModeStaticIPs, Static: StaticSpec{Addresses: []string{"10.0.0.1", "10.0.0.2"}}},
		},
		{
			name:     "ip newline separated",
			join:     "ip:10.0.0.1\n10.0.0.2",
			expected: Spec{Mode: ModeStaticIPs, Static: StaticSpec{Addresses: []string{"10.0.0.1", "10.0.0.2"}}},
		},
		{name: "ip empty list", join: "ip: ,,", expectErr: true},
		{
			name:     "cloud",
			join:     "cloud:aws:mycluster",
			expected: Spec{Mode: ModeCloud, Cloud: CloudSpec{Driver: "aws", ClusterName: "mycluster"}},
		},
		{name: "cloud missing cluster", join: "cloud:aws", expectErr: true},
		{name: "cloud too many segments", join: "cloud:aws:c1:extra", expectErr: true},
		{name: "unrecognized descriptor", join: "zookeeper:localhost", expected: Spec{Mode: ModeNone}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := Parse(tc.join)
			if tc.expectErr {
				require.Error(t, err)
				var cfgErr *apperr.ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, spec)
		})
	}
}

func TestParse_EmptyIPListIsSentinel(t *testing.T) {
	_, err := Parse("ip:   ")
	require.ErrorIs(t, err, apperr.ErrNoAddresses)
}
