// Package mappers converts between store models and API resources.
package mappers

import (
	"encoding/json"

	api "github.com/cloudshift/migration-analyzer/api/v1alpha1"
	"github.com/cloudshift/migration-analyzer/internal/store/model"
)

// SessionToApi inflates the JSON phase documents of a stored session.
// Documents that fail to unmarshal are surfaced as absent rather than
// failing the whole mapping.
func SessionToApi(m model.Session) api.Session {
	session := api.Session{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	session.Inventory = unmarshalField[api.Inventory](m.Inventory)
	session.Scope = unmarshalField[api.ScopeReport](m.Scope)
	session.Cost = unmarshalField[api.CostReport](m.Cost)
	session.Modernization = unmarshalField[api.ModernizationReport](m.Modernization)

	return session
}

// SessionListToApi maps stored sessions to list summaries.
func SessionListToApi(sessions model.SessionList) []api.SessionSummary {
	summaries := make([]api.SessionSummary, 0, len(sessions))
	for _, m := range sessions {
		summary := api.SessionSummary{
			ID:        m.ID,
			Name:      m.Name,
			CreatedAt: m.CreatedAt,
		}
		if inventory := unmarshalField[api.Inventory](m.Inventory); inventory != nil {
			summary.TotalVms = len(inventory.Vms)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func unmarshalField[T any](data []byte) *T {
	if len(data) == 0 {
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil
	}
	return &value
}
