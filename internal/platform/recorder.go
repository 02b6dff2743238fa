package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/smithy-go"
)

// recorderAccount is the placeholder account id used in synthetic ARNs.
const recorderAccount = "000000000000"

// Call is one request observed by a Recorder.
type Call struct {
	Op    string
	Name  string
	Input any
}

// Recorder implements API in memory. It never contacts AWS: every call is
// recorded and answered with a synthetic ARN. Like the real service it
// rejects duplicate names and references to resources it has not seen.
type Recorder struct {
	mu sync.Mutex

	region    string
	calls     []Call
	models    map[string]*sagemaker.CreateModelInput
	configs   map[string]*sagemaker.CreateEndpointConfigInput
	endpoints map[string]*sagemaker.CreateEndpointInput
	failures  map[string]error
}

// NewRecorder returns an empty Recorder whose ARNs name region.
func NewRecorder(region string) *Recorder {
	if region == "" {
		region = "us-east-1"
	}
	r := &Recorder{region: region}
	r.Reset()
	return r
}

// Reset forgets all calls, resources and injected failures.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.models = make(map[string]*sagemaker.CreateModelInput)
	r.configs = make(map[string]*sagemaker.CreateEndpointConfigInput)
	r.endpoints = make(map[string]*sagemaker.CreateEndpointInput)
	r.failures = make(map[string]error)
}

// FailOn makes every subsequent call to op return err. A nil err clears it.
func (r *Recorder) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, op)
		return
	}
	r.failures[op] = err
}

// Calls returns a copy of the calls observed so far, in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// APIError builds a client-fault smithy error carrying code, as the SDK
// surfaces service exceptions.
func APIError(code, format string, a ...any) error {
	return &smithy.GenericAPIError{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
		Fault:   smithy.FaultClient,
	}
}

func (r *Recorder) arn(kind, name string) string {
	return fmt.Sprintf("arn:aws:sagemaker:%s:%s:%s/%s", r.region, recorderAccount, kind, name)
}

// record appends the call and returns the injected failure for op, if any.
func (r *Recorder) record(op, name string, input any) error {
	r.calls = append(r.calls, Call{Op: op, Name: name, Input: input})
	return r.failures[op]
}

// CreateModel records the call and registers the model under its name.
func (r *Recorder) CreateModel(
	ctx context.Context,
	input *sagemaker.CreateModelInput,
	opts ...func(*sagemaker.Options),
) (*sagemaker.CreateModelOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := aws.ToString(input.ModelName)
	if err := r.record(OpCreateModel, name, input); err != nil {
		return nil, err
	}
	if _, exists := r.models[name]; exists {
		return nil, APIError("ValidationException", "Cannot create already existing model %q", r.arn("model", name))
	}
	if input.PrimaryContainer == nil || aws.ToString(input.PrimaryContainer.Image) == "" {
		return nil, APIError("ValidationException", "primary container image is required")
	}
	r.models[name] = input
	return &sagemaker.CreateModelOutput{ModelArn: aws.String(r.arn("model", name))}, nil
}

// CreateEndpointConfig records the call; every variant must name a known model.
func (r *Recorder) CreateEndpointConfig(
	ctx context.Context,
	input *sagemaker.CreateEndpointConfigInput,
	opts ...func(*sagemaker.Options),
) (*sagemaker.CreateEndpointConfigOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := aws.ToString(input.EndpointConfigName)
	if err := r.record(OpCreateEndpointConfig, name, input); err != nil {
		return nil, err
	}
	if _, exists := r.configs[name]; exists {
		return nil, APIError("ValidationException", "Cannot create already existing endpoint configuration %q", r.arn("endpoint-config", name))
	}
	if len(input.ProductionVariants) == 0 {
		return nil, APIError("ValidationException", "at least one production variant is required")
	}
	for _, v := range input.ProductionVariants {
		if _, ok := r.models[aws.ToString(v.ModelName)]; !ok {
			return nil, APIError("ValidationException", "Could not find model %q", r.arn("model", aws.ToString(v.ModelName)))
		}
	}
	r.configs[name] = input
	return &sagemaker.CreateEndpointConfigOutput{EndpointConfigArn: aws.String(r.arn("endpoint-config", name))}, nil
}

// CreateEndpoint records the call; the endpoint config must already exist.
func (r *Recorder) CreateEndpoint(
	ctx context.Context,
	input *sagemaker.CreateEndpointInput,
	opts ...func(*sagemaker.Options),
) (*sagemaker.CreateEndpointOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := aws.ToString(input.EndpointName)
	if err := r.record(OpCreateEndpoint, name, input); err != nil {
		return nil, err
	}
	if _, exists := r.endpoints[name]; exists {
		return nil, APIError("ValidationException", "Cannot create already existing endpoint %q", r.arn("endpoint", name))
	}
	if _, ok := r.configs[aws.ToString(input.EndpointConfigName)]; !ok {
		return nil, APIError("ValidationException", "Could not find endpoint configuration %q", aws.ToString(input.EndpointConfigName))
	}
	r.endpoints[name] = input
	return &sagemaker.CreateEndpointOutput{EndpointArn: aws.String(r.arn("endpoint", name))}, nil
}
