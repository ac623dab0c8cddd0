// Package requirements pulls catalog features out of free-text buyer messages.
package requirements

import (
	"strings"

	"sales-assistant/internal/domain/entities"
)

// Extract returns one requirement per feature whose name occurs in the
// utterance, case-insensitively, in catalog order.
func Extract(utterance string, features []entities.ProductFeature) []entities.Requirement {
	text := strings.ToLower(utterance)
	var out []entities.Requirement
	for _, f := range features {
		if f.Name == "" || !strings.Contains(text, strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, entities.Requirement{
			FeatureID:   f.ID,
			FeatureName: f.Name,
			Required:    true,
		})
	}
	return out
}

// Merge appends incoming requirements whose feature ID is not already
// collected. Existing entries keep their position and values.
func Merge(existing, incoming []entities.Requirement) []entities.Requirement {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]entities.Requirement, 0, len(existing)+len(incoming))
	for _, r := range existing {
		if _, ok := seen[r.FeatureID]; ok {
			continue
		}
		seen[r.FeatureID] = struct{}{}
		out = append(out, r)
	}
	for _, r := range incoming {
		if _, ok := seen[r.FeatureID]; ok {
			continue
		}
		seen[r.FeatureID] = struct{}{}
		out = append(out, r)
	}
	return out
}
