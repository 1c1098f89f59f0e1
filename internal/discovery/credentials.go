package discovery

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/fluxgrid/fluxgrid/internal/config"
)

// CredentialsLookup resolves the object-store credentials the s3
// rendezvous requires.
type CredentialsLookup interface {
	Lookup(ctx context.Context, reader config.Reader) (aws.Credentials, bool)
}

// EnvCredentials resolves credentials from explicit cluster attributes
// first, then from the AWS SDK environment configuration.
type EnvCredentials struct{}

func (EnvCredentials) Lookup(ctx context.Context, reader config.Reader) (aws.Credentials, bool) {
	access := reader.GetString(config.AttrAccessKey, "")
	secret := reader.GetString(config.AttrSecretKey, "")
	if access != "" && secret != "" {
		return aws.Credentials{
			AccessKeyID:     access,
			SecretAccessKey: secret,
			Source:          "cluster attributes",
		}, true
	}

	envCfg, err := awsconfig.NewEnvConfig()
	if err == nil && envCfg.Credentials.HasKeys() {
		return envCfg.Credentials, true
	}
	return aws.Credentials{}, false
}
