package platform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/aws/smithy-go"
)

func createAll(t *testing.T, r *Recorder, model, config, endpoint string) *sagemaker.CreateEndpointOutput {
	t.Helper()
	ctx := context.Background()
	if _, err := r.CreateModel(ctx, &sagemaker.CreateModelInput{
		ModelName:        aws.String(model),
		PrimaryContainer: &smtypes.ContainerDefinition{Image: aws.String("img"), ModelDataUrl: aws.String("s3://b/m.tar.gz")},
	}); err != nil {
		t.Fatalf("create model: %v", err)
	}
	if _, err := r.CreateEndpointConfig(ctx, &sagemaker.CreateEndpointConfigInput{
		EndpointConfigName: aws.String(config),
		ProductionVariants: []smtypes.ProductionVariant{{ModelName: aws.String(model), VariantName: aws.String("AllTraffic")}},
	}); err != nil {
		t.Fatalf("create endpoint config: %v", err)
	}
	out, err := r.CreateEndpoint(ctx, &sagemaker.CreateEndpointInput{
		EndpointName:       aws.String(endpoint),
		EndpointConfigName: aws.String(config),
	})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}
	return out
}

func TestRecorder_RecordsCallsInOrder(t *testing.T) {
	r := NewRecorder("us-west-2")
	out := createAll(t, r, "m", "c", "e")
	if got, want := aws.ToString(out.EndpointArn), "arn:aws:sagemaker:us-west-2:000000000000:endpoint/e"; got != want {
		t.Fatalf("arn: got %q want %q", got, want)
	}
	calls := r.Calls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(calls))
	}
	for i, want := range []string{OpCreateModel, OpCreateEndpointConfig, OpCreateEndpoint} {
		if calls[i].Op != want {
			t.Fatalf("call %d: got %s want %s", i, calls[i].Op, want)
		}
	}
	if calls[1].Name != "c" {
		t.Fatalf("unexpected call name %q", calls[1].Name)
	}
}

func TestRecorder_RejectsDuplicatesAndDanglingReferences(t *testing.T) {
	r := NewRecorder("")
	ctx := context.Background()
	createAll(t, r, "m", "c", "e")

	_, err := r.CreateModel(ctx, &sagemaker.CreateModelInput{
		ModelName:        aws.String("m"),
		PrimaryContainer: &smtypes.ContainerDefinition{Image: aws.String("img")},
	})
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) || apiErr.ErrorCode() != "ValidationException" {
		t.Fatalf("expected ValidationException for duplicate model, got %v", err)
	}

	_, err = r.CreateEndpointConfig(ctx, &sagemaker.CreateEndpointConfigInput{
		EndpointConfigName: aws.String("c2"),
		ProductionVariants: []smtypes.ProductionVariant{{ModelName: aws.String("missing")}},
	})
	if err == nil || !strings.Contains(err.Error(), "Could not find model") {
		t.Fatalf("expected missing model error, got %v", err)
	}

	_, err = r.CreateEndpoint(ctx, &sagemaker.CreateEndpointInput{
		EndpointName:       aws.String("e2"),
		EndpointConfigName: aws.String("nope"),
	})
	if err == nil || !strings.Contains(err.Error(), "Could not find endpoint configuration") {
		t.Fatalf("expected missing config error, got %v", err)
	}
}

func TestRecorder_FailOn(t *testing.T) {
	r := NewRecorder("")
	boom := APIError("AccessDeniedException", "not allowed")
	r.FailOn(OpCreateModel, boom)
	_, err := r.CreateModel(context.Background(), &sagemaker.CreateModelInput{ModelName: aws.String("m")})
	if !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	if n := len(r.Calls()); n != 1 {
		t.Fatalf("failed call should still be recorded, got %d calls", n)
	}
	r.FailOn(OpCreateModel, nil)
	createAll(t, r, "m", "c", "e")

	r.Reset()
	if n := len(r.Calls()); n != 0 {
		t.Fatalf("reset should clear calls, got %d", n)
	}
}
