package deploy

import (
	"strings"
	"testing"
	"time"
)

func TestNewNames(t *testing.T) {
	// 13:04:05 in UTC+2 is 11:04:05 UTC
	now := time.Date(2026, 10, 17, 13, 4, 5, 0, time.FixedZone("CEST", 2*60*60))
	n := NewNames("climabill", "churn-prediction", now)
	if n.Model != "climabill-churn-prediction-20261017110405" {
		t.Fatalf("model name: %q", n.Model)
	}
	if n.Config != "climabill-churn-prediction-config-20261017110405" {
		t.Fatalf("config name: %q", n.Config)
	}
	if n.Endpoint != "climabill-churn-prediction-20261017110405" {
		t.Fatalf("endpoint name: %q", n.Endpoint)
	}
	if err := n.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestNewNames_UniqueAcrossSeconds(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewNames("p", "m", t0)
	b := NewNames("p", "m", t0.Add(time.Second))
	if a.Model == b.Model || a.Config == b.Config || a.Endpoint == b.Endpoint {
		t.Fatalf("names collide across seconds: %+v vs %+v", a, b)
	}
	// sub-second runs collide; there is no idempotence or dedupe
	c := NewNames("p", "m", t0.Add(500*time.Millisecond))
	if a != c {
		t.Fatalf("expected identical names within the same second: %+v vs %+v", a, c)
	}
}

func TestValidateName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"climabill-churn-20260101000000", true},
		{"a", true},
		{"a--b", true},
		{"-leading", false},
		{"trailing-", false},
		{"under_score", false},
		{"dot.ted", false},
		{strings.Repeat("x", maxNameLen), true},
		{strings.Repeat("x", maxNameLen+1), false},
	}
	for _, c := range cases {
		err := ValidateName(c.name)
		if (err == nil) != c.ok {
			t.Fatalf("%q: ok=%v err=%v", c.name, c.ok, err)
		}
	}
}
