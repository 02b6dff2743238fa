package config

import (
	"modeldeploy/pkg/types"
)

// Built-in defaults. They describe the single churn model the project ships
// with; deployments to other accounts are expected to override image and role.
const (
	DefaultPrefix      = "climabill"
	DefaultImage       = "123456789012.dkr.ecr.us-west-2.amazonaws.com/sagemaker-scikit-learn:latest"
	DefaultRoleARN     = "arn:aws:iam::123456789012:role/SageMakerExecutionRole"
	DefaultVariantName = "AllTraffic"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvRegion      = "MODELDEPLOY_REGION"
	EnvProfile     = "MODELDEPLOY_PROFILE"
	EnvRoleARN     = "MODELDEPLOY_ROLE_ARN"
	EnvImage       = "MODELDEPLOY_IMAGE"
	EnvPrefix      = "MODELDEPLOY_PREFIX"
	EnvEndpointURL = "MODELDEPLOY_ENDPOINT_URL"
)

// DeployConfig holds everything needed for one deployment run.
// Zero values mean "unspecified"; Default fills in the built-in values.
type DeployConfig struct {
	Prefix           string                   `json:"prefix" yaml:"prefix" toml:"prefix"`
	Image            string                   `json:"image" yaml:"image" toml:"image"`
	ExecutionRoleARN string                   `json:"execution_role_arn" yaml:"execution_role_arn" toml:"execution_role_arn"`
	Region           string                   `json:"region" yaml:"region" toml:"region"`
	Profile          string                   `json:"profile" yaml:"profile" toml:"profile"`
	EndpointURL      string                   `json:"endpoint_url" yaml:"endpoint_url" toml:"endpoint_url"`
	VariantName      string                   `json:"variant_name" yaml:"variant_name" toml:"variant_name"`
	Tags             map[string]string        `json:"tags" yaml:"tags" toml:"tags"`
	Models           []types.ModelConfigEntry `json:"models" yaml:"models" toml:"models"`
}

// Default returns the built-in static model table.
func Default() DeployConfig {
	return DeployConfig{
		Prefix:           DefaultPrefix,
		Image:            DefaultImage,
		ExecutionRoleARN: DefaultRoleARN,
		VariantName:      DefaultVariantName,
		Models: []types.ModelConfigEntry{
			{
				Name:          "churn-prediction",
				ModelData:     "s3://climabill-models/churn-prediction/model.tar.gz",
				InstanceType:  "ml.m5.large",
				InstanceCount: 1,
			},
		},
	}
}

// ApplyEnv overrides fields from the environment. getenv is usually os.Getenv.
func (c *DeployConfig) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Region, EnvRegion)
	set(&c.Profile, EnvProfile)
	set(&c.ExecutionRoleARN, EnvRoleARN)
	set(&c.Image, EnvImage)
	set(&c.Prefix, EnvPrefix)
	set(&c.EndpointURL, EnvEndpointURL)
}

// Select returns the entries whose names appear in names, in config order.
// An empty names list selects everything. Unknown names are an error.
func (c DeployConfig) Select(names []string) ([]types.ModelConfigEntry, error) {
	if len(names) == 0 {
		return c.Models, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []types.ModelConfigEntry
	for _, m := range c.Models {
		if want[m.Name] {
			out = append(out, m)
			delete(want, m.Name)
		}
	}
	if len(want) > 0 {
		for _, n := range names {
			if want[n] {
				return nil, &unknownModelError{name: n}
			}
		}
	}
	return out, nil
}

type unknownModelError struct{ name string }

func (e *unknownModelError) Error() string { return "unknown model: " + e.name }
