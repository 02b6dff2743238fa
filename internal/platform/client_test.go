package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/aws/smithy-go"
)

// isolateAWSEnv keeps the developer's own AWS setup out of the test.
func isolateAWSEnv(t *testing.T) {
	t.Helper()
	d := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(d, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(d, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
}

// fakeSageMaker answers the awsJson1.1 protocol for the three create calls.
type fakeSageMaker struct {
	mu      sync.Mutex
	targets []string
	bodies  []map[string]any
	failOp  string
}

func (f *fakeSageMaker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := r.Header.Get("X-Amz-Target")
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.targets = append(f.targets, target)
	f.bodies = append(f.bodies, body)
	failOp := f.failOp
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/x-amz-json-1.1")
	if failOp != "" && target == "SageMaker."+failOp {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"__type":"ResourceLimitExceeded","Message":"account quota reached"}`)
		return
	}
	switch target {
	case "SageMaker.CreateModel":
		fmt.Fprintf(w, `{"ModelArn":"arn:aws:sagemaker:us-west-2:1:model/%s"}`, body["ModelName"])
	case "SageMaker.CreateEndpointConfig":
		fmt.Fprintf(w, `{"EndpointConfigArn":"arn:aws:sagemaker:us-west-2:1:endpoint-config/%s"}`, body["EndpointConfigName"])
	case "SageMaker.CreateEndpoint":
		fmt.Fprintf(w, `{"EndpointArn":"arn:aws:sagemaker:us-west-2:1:endpoint/%s"}`, body["EndpointName"])
	default:
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"__type":"UnknownOperationException","Message":"%s"}`, target)
	}
}

func newTestClient(t *testing.T, url string) *sagemaker.Client {
	t.Helper()
	isolateAWSEnv(t)
	c, err := NewClient(context.Background(), Options{
		Region:      "us-west-2",
		EndpointURL: url,
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClient_SpeaksSageMakerProtocol(t *testing.T) {
	fake := &fakeSageMaker{}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	mo, err := c.CreateModel(ctx, &sagemaker.CreateModelInput{
		ModelName:        aws.String("climabill-churn-20260101000000"),
		ExecutionRoleArn: aws.String("arn:aws:iam::1:role/R"),
		PrimaryContainer: &smtypes.ContainerDefinition{Image: aws.String("img"), ModelDataUrl: aws.String("s3://b/m.tar.gz")},
	})
	if err != nil {
		t.Fatalf("create model: %v", err)
	}
	if got := aws.ToString(mo.ModelArn); got != "arn:aws:sagemaker:us-west-2:1:model/climabill-churn-20260101000000" {
		t.Fatalf("model arn: %q", got)
	}
	eo, err := c.CreateEndpoint(ctx, &sagemaker.CreateEndpointInput{
		EndpointName:       aws.String("ep"),
		EndpointConfigName: aws.String("cfg"),
	})
	if err != nil {
		t.Fatalf("create endpoint: %v", err)
	}
	if got := aws.ToString(eo.EndpointArn); got != "arn:aws:sagemaker:us-west-2:1:endpoint/ep" {
		t.Fatalf("endpoint arn: %q", got)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.targets) != 2 || fake.targets[0] != "SageMaker.CreateModel" || fake.targets[1] != "SageMaker.CreateEndpoint" {
		t.Fatalf("unexpected targets: %v", fake.targets)
	}
	if fake.bodies[1]["EndpointConfigName"] != "cfg" {
		t.Fatalf("endpoint config name not sent: %v", fake.bodies[1])
	}
}

func TestNewClient_SurfacesAPIErrorCode(t *testing.T) {
	fake := &fakeSageMaker{failOp: OpCreateEndpointConfig}
	srv := httptest.NewServer(fake)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.CreateEndpointConfig(context.Background(), &sagemaker.CreateEndpointConfigInput{
		EndpointConfigName: aws.String("cfg"),
		ProductionVariants: []smtypes.ProductionVariant{{
			VariantName:          aws.String("AllTraffic"),
			ModelName:            aws.String("m"),
			InstanceType:         smtypes.ProductionVariantInstanceType("ml.m5.large"),
			InitialInstanceCount: aws.Int32(1),
		}},
	})
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected smithy.APIError, got %T %v", err, err)
	}
	if apiErr.ErrorCode() != "ResourceLimitExceeded" {
		t.Fatalf("unexpected code %q", apiErr.ErrorCode())
	}
}

func TestNewClient_RequiresRegion(t *testing.T) {
	isolateAWSEnv(t)
	_, err := NewClient(context.Background(), Options{
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	})
	if !errors.Is(err, ErrNoRegion) {
		t.Fatalf("expected ErrNoRegion, got %v", err)
	}
}
