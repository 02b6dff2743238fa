// Package deploy provisions SageMaker hosting endpoints for configured models.
// It is structured into small files by concern:
//
//   - driver.go: Driver, its Config, and the per-entry create sequence.
//   - names.go: resource name derivation and platform naming rules.
//   - errors.go: StepError and the Classify taxonomy.
//   - metrics.go: Prometheus counters for calls and entries, textfile export.
//
// Each entry results in exactly three control-plane calls, in order:
// CreateModel, CreateEndpointConfig, CreateEndpoint. The model name sent in
// the first call is the variant's ModelName in the second; the config name
// sent in the second is the EndpointConfigName in the third. Nothing is
// retried beyond the SDK's own retryer and nothing is rolled back.
package deploy
