package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/juju/clock"
	"github.com/rs/zerolog"

	"modeldeploy/internal/platform"
	"modeldeploy/pkg/types"
)

// ModelTagKey is attached to every created resource, naming the entry it belongs to.
const ModelTagKey = "modeldeploy:model"

const defaultVariantName = "AllTraffic"

// Config encapsulates everything a Driver needs.
type Config struct {
	API              platform.API
	Clock            clock.Clock
	Logger           zerolog.Logger
	Out              io.Writer
	Prefix           string
	Image            string
	ExecutionRoleARN string
	VariantName      string
	Tags             map[string]string
	// KeepGoing continues with the remaining entries after a failure.
	KeepGoing bool
}

// Driver provisions one endpoint per model entry.
type Driver struct {
	api       platform.API
	clock     clock.Clock
	log       zerolog.Logger
	out       io.Writer
	prefix    string
	image     string
	roleARN   string
	variant   string
	tags      map[string]string
	keepGoing bool
}

// New constructs a Driver from cfg, filling unset fields with defaults.
func New(cfg Config) *Driver {
	d := &Driver{
		api:       cfg.API,
		clock:     cfg.Clock,
		log:       cfg.Logger,
		out:       cfg.Out,
		prefix:    cfg.Prefix,
		image:     cfg.Image,
		roleARN:   cfg.ExecutionRoleARN,
		variant:   cfg.VariantName,
		tags:      cfg.Tags,
		keepGoing: cfg.KeepGoing,
	}
	if d.clock == nil {
		d.clock = clock.WallClock
	}
	if d.out == nil {
		d.out = os.Stdout
	}
	if d.variant == "" {
		d.variant = defaultVariantName
	}
	return d
}

// Run deploys entries in order. By default the first failure stops the run;
// with KeepGoing every entry is attempted and all failures are joined.
// Results cover every entry that was attempted.
func (d *Driver) Run(ctx context.Context, entries []types.ModelConfigEntry) ([]types.Result, error) {
	results := make([]types.Result, 0, len(entries))
	var errs []error
	for _, e := range entries {
		res, err := d.DeployEntry(ctx, e)
		results = append(results, res)
		if err == nil {
			continue
		}
		errs = append(errs, err)
		if !d.keepGoing {
			break
		}
	}
	return results, errors.Join(errs...)
}

// DeployEntry issues create-model, create-endpoint-config and create-endpoint
// for e, threading each returned name into the next call, then prints the
// confirmation line. It returns once creation is initiated; it does not wait
// for the endpoint to come into service. A failed step aborts the entry and
// leaves whatever was already created.
func (d *Driver) DeployEntry(ctx context.Context, e types.ModelConfigEntry) (res types.Result, err error) {
	res.Entry = e
	log := d.log.With().Str("model", e.Name).Logger()
	defer func() {
		res.Err = err
		entriesTotal.WithLabelValues(outcomeLabel(err)).Inc()
		if err != nil {
			ev := log.Error().Err(err).Str("kind", string(Classify(err)))
			if h := Hint(err); h != "" {
				ev = ev.Str("hint", h)
			}
			ev.Msg("deployment failed")
		}
	}()

	names := NewNames(d.prefix, e.Name, d.clock.Now())
	if err := names.Validate(); err != nil {
		return res, &StepError{Entry: e.Name, Step: StepNaming, Err: err}
	}
	if e.InstanceCount <= 0 || e.InstanceCount > math.MaxInt32 {
		return res, &StepError{Entry: e.Name, Step: StepInput, Err: fmt.Errorf("instance count %d out of range", e.InstanceCount)}
	}
	tags := d.resourceTags(e.Name)

	// create model
	var mo *sagemaker.CreateModelOutput
	err = d.call(ctx, platform.OpCreateModel, func() (err error) {
		mo, err = d.api.CreateModel(ctx, &sagemaker.CreateModelInput{
			ModelName: aws.String(names.Model),
			PrimaryContainer: &smtypes.ContainerDefinition{
				Image:        aws.String(d.image),
				ModelDataUrl: aws.String(e.ModelData),
			},
			ExecutionRoleArn: aws.String(d.roleARN),
			Tags:             tags,
		})
		return err
	})
	if err != nil {
		return res, &StepError{Entry: e.Name, Step: StepModel, Resource: names.Model, Err: err}
	}
	res.Model = types.ModelRecord{Name: names.Model, ARN: arnOf(mo, func(o *sagemaker.CreateModelOutput) *string { return o.ModelArn })}
	log.Debug().Str("model_arn", res.Model.ARN).Msg("model created")

	// create endpoint config
	var co *sagemaker.CreateEndpointConfigOutput
	err = d.call(ctx, platform.OpCreateEndpointConfig, func() (err error) {
		co, err = d.api.CreateEndpointConfig(ctx, &sagemaker.CreateEndpointConfigInput{
			EndpointConfigName: aws.String(names.Config),
			ProductionVariants: []smtypes.ProductionVariant{{
				VariantName:          aws.String(d.variant),
				ModelName:            aws.String(res.Model.Name),
				InitialInstanceCount: aws.Int32(int32(e.InstanceCount)),
				InstanceType:         smtypes.ProductionVariantInstanceType(e.InstanceType),
				InitialVariantWeight: aws.Float32(1),
			}},
			Tags: tags,
		})
		return err
	})
	if err != nil {
		return res, &StepError{Entry: e.Name, Step: StepEndpointConfig, Resource: names.Config, Err: err}
	}
	res.Config = types.EndpointConfigRecord{
		Name:      names.Config,
		ARN:       arnOf(co, func(o *sagemaker.CreateEndpointConfigOutput) *string { return o.EndpointConfigArn }),
		ModelName: res.Model.Name,
	}
	log.Debug().Str("endpoint_config_arn", res.Config.ARN).Msg("endpoint config created")

	// create endpoint
	var eo *sagemaker.CreateEndpointOutput
	err = d.call(ctx, platform.OpCreateEndpoint, func() (err error) {
		eo, err = d.api.CreateEndpoint(ctx, &sagemaker.CreateEndpointInput{
			EndpointName:       aws.String(names.Endpoint),
			EndpointConfigName: aws.String(res.Config.Name),
			Tags:               tags,
		})
		return err
	})
	if err != nil {
		return res, &StepError{Entry: e.Name, Step: StepEndpoint, Resource: names.Endpoint, Err: err}
	}
	res.Endpoint = types.EndpointRecord{
		Name:       names.Endpoint,
		ARN:        arnOf(eo, func(o *sagemaker.CreateEndpointOutput) *string { return o.EndpointArn }),
		ConfigName: res.Config.Name,
	}
	log.Info().Str("endpoint", res.Endpoint.Name).Str("endpoint_arn", res.Endpoint.ARN).Msg("endpoint creation initiated")

	if _, err := fmt.Fprintf(d.out, "Endpoint creation initiated for %s: %s\n", e.Name, res.Endpoint.ARN); err != nil {
		return res, fmt.Errorf("write confirmation: %w", err)
	}
	return res, nil
}

// call runs fn and records its outcome and duration under op.
func (d *Driver) call(ctx context.Context, op string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := d.clock.Now()
	err := fn()
	apiCallDuration.WithLabelValues(op).Observe(d.clock.Now().Sub(start).Seconds())
	apiCallsTotal.WithLabelValues(op, outcomeLabel(err)).Inc()
	d.log.Debug().Str("op", op).Err(err).Msg("platform call")
	return err
}

// resourceTags returns the configured tags plus the model tag, sorted by key.
func (d *Driver) resourceTags(model string) []smtypes.Tag {
	keys := make([]string, 0, len(d.tags)+1)
	for k := range d.tags {
		if k != ModelTagKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	tags := make([]smtypes.Tag, 0, len(keys)+1)
	for _, k := range keys {
		tags = append(tags, smtypes.Tag{Key: aws.String(k), Value: aws.String(d.tags[k])})
	}
	return append(tags, smtypes.Tag{Key: aws.String(ModelTagKey), Value: aws.String(model)})
}

func arnOf[T any](out *T, get func(*T) *string) string {
	if out == nil {
		return ""
	}
	return aws.ToString(get(out))
}
