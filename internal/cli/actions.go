package cli

import (
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"modeldeploy/internal/common/fsutil"
	"modeldeploy/internal/config"
	"modeldeploy/internal/deploy"
	"modeldeploy/internal/platform"
	"modeldeploy/pkg/types"
)

// loaded is a validated configuration plus the entries selected for this run.
type loaded struct {
	cfg     config.DeployConfig
	entries []types.ModelConfigEntry
	source  string
}

// loadConfig layers defaults, the config file, the environment and flags,
// in that order, then validates the result.
func (a *App) loadConfig(cmd *cobra.Command, g *globalOpts) (loaded, error) {
	var l loaded
	path := g.configPath
	if path == "" {
		path = config.Discover()
	}
	l.cfg = config.Default()
	l.source = "built-in"
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return l, fmt.Errorf("load config: %w", err)
		}
		l.cfg = cfg
		l.source = path
	}
	l.cfg.ApplyEnv(a.Getenv)

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("region", &l.cfg.Region, g.region)
	override("profile", &l.cfg.Profile, g.profile)
	override("endpoint-url", &l.cfg.EndpointURL, g.endpointURL)
	override("role-arn", &l.cfg.ExecutionRoleARN, g.roleARN)
	override("image", &l.cfg.Image, g.image)
	override("prefix", &l.cfg.Prefix, g.prefix)

	if err := l.cfg.Validate(); err != nil {
		return l, fmt.Errorf("invalid config (%s): %w", l.source, err)
	}
	entries, err := l.cfg.Select(g.only)
	if err != nil {
		return l, err
	}
	l.entries = entries
	a.log.Debug().Str("source", l.source).Int("models", len(entries)).Msg("config loaded")
	return l, nil
}

func (a *App) newDriver(l loaded, api platform.API, out io.Writer, keepGoing bool) *deploy.Driver {
	return deploy.New(deploy.Config{
		API:              api,
		Clock:            a.Clock,
		Logger:           a.log,
		Out:              out,
		Prefix:           l.cfg.Prefix,
		Image:            l.cfg.Image,
		ExecutionRoleARN: l.cfg.ExecutionRoleARN,
		VariantName:      l.cfg.VariantName,
		Tags:             l.cfg.Tags,
		KeepGoing:        keepGoing,
	})
}

func (a *App) runDeploy(cmd *cobra.Command, g *globalOpts, d *deployOpts) error {
	ctx := cmd.Context()
	l, err := a.loadConfig(cmd, g)
	if err != nil {
		return err
	}
	api, err := a.NewAPI(ctx, platform.Options{
		Region:      l.cfg.Region,
		Profile:     l.cfg.Profile,
		EndpointURL: l.cfg.EndpointURL,
	})
	if err != nil {
		return err
	}

	results, runErr := a.newDriver(l, api, a.Stdout, d.keepGoing).Run(ctx, l.entries)
	initiated := 0
	for _, r := range results {
		if r.OK() {
			initiated++
		}
	}
	a.log.Info().
		Int("models", len(l.entries)).
		Int("attempted", len(results)).
		Int("initiated", initiated).
		Msg("run complete")

	if d.metricsFile != "" {
		p, err := fsutil.ExpandHome(d.metricsFile)
		if err == nil {
			err = deploy.WriteMetrics(p)
		}
		if err != nil {
			a.log.Warn().Err(err).Str("path", d.metricsFile).Msg("metrics not written")
		}
	}
	return runErr
}

// runPlan drives the deploy sequence against an in-memory recorder and prints
// each call it would have made.
func (a *App) runPlan(cmd *cobra.Command, g *globalOpts) error {
	l, err := a.loadConfig(cmd, g)
	if err != nil {
		return err
	}
	rec := platform.NewRecorder(l.cfg.Region)
	_, runErr := a.newDriver(l, rec, io.Discard, true).Run(cmd.Context(), l.entries)

	table := uitable.New()
	table.MaxColWidth = 200
	table.AddRow("CALL", "NAME", "DETAILS")
	for _, c := range rec.Calls() {
		table.AddRow(c.Op, c.Name, describeCall(c))
	}
	fmt.Fprintln(a.Stdout, table)
	return runErr
}

func describeCall(c platform.Call) string {
	switch in := c.Input.(type) {
	case *sagemaker.CreateModelInput:
		var image, data string
		if in.PrimaryContainer != nil {
			image = aws.ToString(in.PrimaryContainer.Image)
			data = aws.ToString(in.PrimaryContainer.ModelDataUrl)
		}
		return fmt.Sprintf("model_data=%s role=%s image=%s", data, aws.ToString(in.ExecutionRoleArn), image)
	case *sagemaker.CreateEndpointConfigInput:
		if len(in.ProductionVariants) == 0 {
			return ""
		}
		v := in.ProductionVariants[0]
		return fmt.Sprintf("variant=%s model=%s instance=%s x%d",
			aws.ToString(v.VariantName), aws.ToString(v.ModelName), v.InstanceType, aws.ToInt32(v.InitialInstanceCount))
	case *sagemaker.CreateEndpointInput:
		return "config=" + aws.ToString(in.EndpointConfigName)
	}
	return ""
}

func (a *App) runValidate(cmd *cobra.Command, g *globalOpts) error {
	l, err := a.loadConfig(cmd, g)
	if err != nil {
		return err
	}
	table := uitable.New()
	table.MaxColWidth = 80
	table.RightAlign(3)
	table.AddRow("NAME", "MODEL DATA", "INSTANCE TYPE", "COUNT")
	for _, e := range l.entries {
		table.AddRow(e.Name, e.ModelData, e.InstanceType, e.InstanceCount)
	}
	fmt.Fprintln(a.Stdout, table)
	_, err = fmt.Fprintf(a.Stdout, "config OK (%s): %d model(s), prefix %q\n", l.source, len(l.entries), l.cfg.Prefix)
	return err
}
