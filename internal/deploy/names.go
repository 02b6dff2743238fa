package deploy

import (
	"fmt"
	"regexp"
	"time"
)

// timestampLayout is the UTC suffix on every generated name (second precision).
const timestampLayout = "20060102150405"

// maxNameLen is SageMaker's limit for model, endpoint config and endpoint names.
const maxNameLen = 63

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9](-*[a-zA-Z0-9])*$`)

// Names holds the generated resource names for one entry.
type Names struct {
	Model    string
	Config   string
	Endpoint string
}

// NewNames derives the three resource names for model at now.
// All three share a single timestamp.
func NewNames(prefix, model string, now time.Time) Names {
	ts := now.UTC().Format(timestampLayout)
	return Names{
		Model:    fmt.Sprintf("%s-%s-%s", prefix, model, ts),
		Config:   fmt.Sprintf("%s-%s-config-%s", prefix, model, ts),
		Endpoint: fmt.Sprintf("%s-%s-%s", prefix, model, ts),
	}
}

// Validate checks every name against the platform naming rules.
func (n Names) Validate() error {
	for _, name := range []string{n.Model, n.Config, n.Endpoint} {
		if err := ValidateName(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateName reports whether name is acceptable as a SageMaker resource name.
func ValidateName(name string) error {
	if len(name) > maxNameLen {
		return fmt.Errorf("name %q is %d characters, limit is %d", name, len(name), maxNameLen)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("name %q must contain only letters, digits and hyphens and must not start or end with a hyphen", name)
	}
	return nil
}
