package types

// ModelConfigEntry describes one model to be hosted behind a SageMaker endpoint.
// Entries are defined once at startup and never mutated.
type ModelConfigEntry struct {
	// Short identifier used to derive resource names.
	// example: churn-prediction
	Name string `json:"name" yaml:"name" toml:"name"`
	// S3 URI of the packaged model artifact.
	// example: s3://climabill-models/churn-prediction/model.tar.gz
	ModelData string `json:"model_data" yaml:"model_data" toml:"model_data"`
	// Platform machine size for the production variant.
	// example: ml.m5.large
	InstanceType string `json:"instance_type" yaml:"instance_type" toml:"instance_type"`
	// Initial number of instances; must be positive.
	// example: 1
	InstanceCount int `json:"instance_count" yaml:"instance_count" toml:"instance_count"`
}

// ModelRecord is the model registered by CreateModel.
type ModelRecord struct {
	Name string `json:"name"`
	ARN  string `json:"arn"`
}

// EndpointConfigRecord is the endpoint configuration registered by CreateEndpointConfig.
type EndpointConfigRecord struct {
	Name      string `json:"name"`
	ARN       string `json:"arn"`
	ModelName string `json:"model_name"`
}

// EndpointRecord is the endpoint whose creation was initiated by CreateEndpoint.
// Provisioning continues asynchronously on the platform side.
type EndpointRecord struct {
	Name       string `json:"name"`
	ARN        string `json:"arn"`
	ConfigName string `json:"config_name"`
}

// Result is the outcome of deploying a single entry. Records for steps that
// were never reached are left zero.
type Result struct {
	Entry    ModelConfigEntry     `json:"entry"`
	Model    ModelRecord          `json:"model"`
	Config   EndpointConfigRecord `json:"config"`
	Endpoint EndpointRecord       `json:"endpoint"`
	Err      error                `json:"-"`
}

// OK reports whether every step for the entry succeeded.
func (r Result) OK() bool { return r.Err == nil && r.Endpoint.ARN != "" }
