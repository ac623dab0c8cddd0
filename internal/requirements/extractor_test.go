package requirements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-assistant/internal/catalog"
	"sales-assistant/internal/domain/entities"
)

func ids(reqs []entities.Requirement) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.FeatureID)
	}
	return out
}

func TestExtract(t *testing.T) {
	features := catalog.Default().ListFeatures()

	tests := []struct {
		name      string
		utterance string
		want      []string
	}{
		{"two features", "We need Multi-user Access and Mobile Access", []string{"feat-003", "feat-006"}},
		{"case insensitive", "MOBILE ACCESS is a must", []string{"feat-006"}},
		{"catalog order", "mobile access first, then multi-user access", []string{"feat-003", "feat-006"}},
		{"nothing", "just browsing", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.utterance, features)
			assert.Equal(t, tt.want, ids(got))
			for _, r := range got {
				assert.True(t, r.Required)
				assert.Nil(t, r.Quantity)
				assert.Empty(t, r.Notes)
			}
		})
	}
}

func TestExtractDoesNotDedupe(t *testing.T) {
	features := []entities.ProductFeature{
		{ID: "a", Name: "Sync"},
		{ID: "a", Name: "Sync"},
	}
	assert.Len(t, Extract("sync please", features), 2)
}

func TestMerge(t *testing.T) {
	existing := []entities.Requirement{{FeatureID: "feat-003", FeatureName: "Multi-user Access", Notes: "50 seats"}}
	incoming := []entities.Requirement{
		{FeatureID: "feat-003", FeatureName: "Multi-user Access"},
		{FeatureID: "feat-006", FeatureName: "Mobile Access"},
		{FeatureID: "feat-006", FeatureName: "Mobile Access"},
	}

	merged := Merge(existing, incoming)
	assert.Equal(t, []string{"feat-003", "feat-006"}, ids(merged))
	assert.Equal(t, "50 seats", merged[0].Notes)
	assert.Empty(t, Merge(nil, nil))
}
