package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Validate reports every problem found in the configuration at once.
// It only checks shape; the platform remains the authority on whether an
// image, role or instance type is actually usable.
func (c DeployConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Prefix) == "" {
		errs = append(errs, errors.New("prefix is required"))
	}
	if strings.TrimSpace(c.Image) == "" {
		errs = append(errs, errors.New("image is required"))
	}
	if !strings.HasPrefix(c.ExecutionRoleARN, "arn:") {
		errs = append(errs, fmt.Errorf("execution_role_arn must be an ARN, got %q", c.ExecutionRoleARN))
	}
	if strings.TrimSpace(c.VariantName) == "" {
		errs = append(errs, errors.New("variant_name is required"))
	}
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("at least one model is required"))
	}
	seen := make(map[string]bool, len(c.Models))
	for i, m := range c.Models {
		where := fmt.Sprintf("models[%d]", i)
		if m.Name != "" {
			where = fmt.Sprintf("models[%d] (%s)", i, m.Name)
		}
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		} else if seen[m.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate name", where))
		}
		seen[m.Name] = true
		if !strings.HasPrefix(m.ModelData, "s3://") || len(m.ModelData) <= len("s3://") {
			errs = append(errs, fmt.Errorf("%s: model_data must be an s3:// URI, got %q", where, m.ModelData))
		}
		if !strings.HasPrefix(m.InstanceType, "ml.") {
			errs = append(errs, fmt.Errorf("%s: instance_type must start with \"ml.\", got %q", where, m.InstanceType))
		}
		if m.InstanceCount <= 0 {
			errs = append(errs, fmt.Errorf("%s: instance_count must be positive, got %d", where, m.InstanceCount))
		} else if m.InstanceCount > math.MaxInt32 {
			errs = append(errs, fmt.Errorf("%s: instance_count must be at most %d, got %d", where, math.MaxInt32, m.InstanceCount))
		}
	}
	return errors.Join(errs...)
}
