package testutil

import (
	"time"

	"github.com/skosovsky/reactkit"
)

// NewTestRegistry returns a Registry with long timeout, panic recovery and
// automatic approval, suitable for tests. It panics on duplicate or empty names.
func NewTestRegistry(tools ...reactkit.Tool) *reactkit.Registry {
	reg, err := reactkit.NewRegistry(tools,
		reactkit.WithDefaultTimeout(30*time.Second),
		reactkit.WithRecoverPanics(true),
		reactkit.WithApprover(reactkit.AlwaysApprove),
	)
	if err != nil {
		panic(err)
	}
	return reg
}
