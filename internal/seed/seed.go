// Package seed holds the default twelve-month plan that a fresh
// installation starts from. The dataset is embedded so the binary
// works without any external files.
package seed

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"offerplan/internal/core"
)

//go:embed months.json
var seedFS embed.FS

// Plan returns a fresh copy of the default plan. Every offer gets a
// newly generated id so repeated resets never collide, and every offer
// starts active.
func Plan() (core.Plan, error) {
	raw, err := seedFS.ReadFile("months.json")
	if err != nil {
		return nil, fmt.Errorf("read seed data: %w", err)
	}

	var plan core.Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	for i := range plan {
		for j := range plan[i].Offers {
			plan[i].Offers[j].ID = uuid.NewString()
			plan[i].Offers[j].Cancelled = false
		}
	}
	return plan, nil
}
