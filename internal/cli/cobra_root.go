package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalOpts are shared by every subcommand.
type globalOpts struct {
	configPath  string
	logLevel    string
	logFormat   string
	region      string
	profile     string
	endpointURL string
	roleARN     string
	image       string
	prefix      string
	only        []string
}

type deployOpts struct {
	keepGoing   bool
	metricsFile string
}

func addDeployFlags(fs *pflag.FlagSet, o *deployOpts) {
	fs.BoolVar(&o.keepGoing, "keep-going", false, "Continue with remaining models after a failure")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
}

// buildRootCmdWith constructs the Cobra command tree bound to a.
func buildRootCmdWith(a *App) *cobra.Command {
	g := &globalOpts{}
	d := &deployOpts{}

	defaultLevel := a.Getenv(EnvLogLevel)
	if defaultLevel == "" {
		defaultLevel = "info"
	}

	root := &cobra.Command{
		Use:   "modeldeploy",
		Short: "Provision SageMaker endpoints for configured models",
		Long: "modeldeploy registers a model, an endpoint configuration and an endpoint\n" +
			"for every configured model entry. Running it without a subcommand deploys.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = newLogger(a.Stderr, g.logLevel, g.logFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error { return a.runDeploy(cmd, g, d) },
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Config file (.yaml|.yml|.json|.toml); searched for when unset")
	pf.StringVar(&g.logLevel, "log-level", defaultLevel, "Log level: debug|info|warn|error (defaults "+EnvLogLevel+" or info)")
	pf.StringVar(&g.logFormat, "log-format", "console", "Log format: console|json")
	pf.StringVar(&g.region, "region", "", "AWS region (overrides config and MODELDEPLOY_REGION)")
	pf.StringVar(&g.profile, "profile", "", "AWS shared config profile")
	pf.StringVar(&g.endpointURL, "endpoint-url", "", "Override the SageMaker API endpoint")
	pf.StringVar(&g.roleARN, "role-arn", "", "Execution role ARN assumed by SageMaker")
	pf.StringVar(&g.image, "image", "", "Inference container image")
	pf.StringVar(&g.prefix, "prefix", "", "Prefix for generated resource names")
	pf.StringSliceVar(&g.only, "only", nil, "Restrict the run to these model names (comma separated)")
	addDeployFlags(root.Flags(), d)

	deployCmd := &cobra.Command{
		Use:     "deploy",
		Short:   "Create model, endpoint config and endpoint for each entry",
		Example: "  modeldeploy deploy --config models.yaml\n  modeldeploy deploy --only churn-prediction --region us-west-2",
		Args:    cobra.NoArgs,
		RunE:    func(cmd *cobra.Command, args []string) error { return a.runDeploy(cmd, g, d) },
	}
	addDeployFlags(deployCmd.Flags(), d)

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the calls deploy would make, without contacting AWS",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return a.runPlan(cmd, g) },
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return a.runValidate(cmd, g) },
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.Stdout, "modeldeploy", Version)
			return err
		},
	}

	root.AddCommand(deployCmd, planCmd, validateCmd, versionCmd)
	return root
}
