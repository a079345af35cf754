// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/finance-dashboard/internal/retirement"
)

// FindProjection finds the projection for rate in the projections slice.
// Returns a pointer to the projection if found, nil otherwise.
func FindProjection(projections []retirement.Projection, rate float64) *retirement.Projection {
	for i := range projections {
		if projections[i].Rate == rate {
			return &projections[i]
		}
	}
	return nil
}
