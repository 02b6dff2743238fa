// Package platform wraps the SageMaker control plane used by the deploy driver.
//
// API is the narrow slice of *sagemaker.Client the driver needs. NewClient
// builds the real client from the ambient AWS configuration chain; Recorder is
// an in-memory stand-in used for dry runs and tests.
package platform

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
)

// Operation names, as reported in metrics, logs and Recorder calls.
const (
	OpCreateModel          = "CreateModel"
	OpCreateEndpointConfig = "CreateEndpointConfig"
	OpCreateEndpoint       = "CreateEndpoint"
)

// API is satisfied by *sagemaker.Client.
type API interface {
	CreateModel(ctx context.Context, params *sagemaker.CreateModelInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateModelOutput, error)
	CreateEndpointConfig(ctx context.Context, params *sagemaker.CreateEndpointConfigInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateEndpointConfigOutput, error)
	CreateEndpoint(ctx context.Context, params *sagemaker.CreateEndpointInput, optFns ...func(*sagemaker.Options)) (*sagemaker.CreateEndpointOutput, error)
}

var _ API = (*sagemaker.Client)(nil)
