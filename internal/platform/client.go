package platform

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
)

// ErrNoRegion is returned when neither the options nor the ambient AWS
// configuration name a region.
var ErrNoRegion = errors.New("no AWS region configured (set --region, MODELDEPLOY_REGION or AWS_REGION)")

// Options selects how the SageMaker client is built. Zero values defer to the
// SDK default chain.
type Options struct {
	Region      string
	Profile     string
	EndpointURL string
	// Credentials overrides the default credential chain. Nil in production.
	Credentials aws.CredentialsProvider
}

// NewClient loads the AWS configuration and returns a SageMaker client.
func NewClient(ctx context.Context, opts Options) (*sagemaker.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Credentials != nil {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(opts.Credentials))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		return nil, ErrNoRegion
	}
	return sagemaker.NewFromConfig(cfg, func(o *sagemaker.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
	}), nil
}
