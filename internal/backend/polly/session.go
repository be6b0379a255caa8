package polly

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

// NewSession returns an AWS session for region.
// Static credentials are used when an access key is given, otherwise the
// default chain (environment, shared config, instance role) applies.
func NewSession(region, accessKeyID, secretAccessKey string) (*session.Session, error) {
	if region == "" {
		return nil, errors.New("aws region required")
	}

	cfg := &aws.Config{Region: aws.String(region)}
	if accessKeyID != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKeyID, secretAccessKey, "")
	}

	return session.NewSession(cfg)
}
