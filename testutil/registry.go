package testutil

import (
	"time"

	"github.com/skosovsky/rfpdesk"
)

// NewTestRegistry returns a Registry with a long timeout and panic recovery
// enabled, suitable for tests.
func NewTestRegistry(tools ...rfpdesk.Tool) *rfpdesk.Registry {
	reg := rfpdesk.NewRegistry(
		rfpdesk.WithDefaultTimeout(30*time.Second),
		rfpdesk.WithRecoverPanics(true),
	)
	for _, t := range tools {
		reg.Register(t)
	}
	return reg
}

// Str returns a pointer to s, for populating optional Record fields.
func Str(s string) *string { return &s }

// SampleSnapshot returns a small fixed snapshot for tests: two persisted
// records with ids 1 and 2.
func SampleSnapshot() rfpdesk.Snapshot {
	return rfpdesk.Snapshot{
		{
			ID:       1,
			Title:    "Website Redesign",
			Company:  "Acme Corp",
			Deadline: Str("2026-10-01"),
			Budget:   Str("$50,000"),
		},
		{
			ID:          2,
			Title:       "Mobile App Development",
			Company:     "Globex",
			Description: Str("Cross-platform mobile application for field technicians."),
			Contact:     Str("rfp@globex.example"),
		},
	}
}
