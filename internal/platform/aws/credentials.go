package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
)

// ErrNoCredentials is returned when the default chain yields an empty key pair.
var ErrNoCredentials = errors.New("no AWS credentials found: set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY or configure a profile")

// Credentials is the key pair stored in the aws-storage-key secret.
// SessionToken is set for temporary credentials and must travel with the pair.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// LoadStorageCredentials resolves credentials through the SDK default chain:
// environment, shared config and credentials files, then instance roles.
func LoadStorageCredentials(ctx context.Context) (Credentials, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Credentials == nil {
		return Credentials{}, ErrNoCredentials
	}

	v, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}
	if v.AccessKeyID == "" || v.SecretAccessKey == "" {
		return Credentials{}, ErrNoCredentials
	}

	return Credentials{
		AccessKeyID:     v.AccessKeyID,
		SecretAccessKey: v.SecretAccessKey,
		SessionToken:    v.SessionToken,
	}, nil
}
