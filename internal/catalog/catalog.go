// Package catalog holds the static product feature catalog and the
// historical deal records pricing consults for comparable margins.
package catalog

import (
	"strings"

	"sales-assistant/internal/domain/entities"
)

// Catalog is a read-only, ordered set of product features.
type Catalog struct {
	features []entities.ProductFeature
	byID     map[string]entities.ProductFeature
}

func New(features []entities.ProductFeature) *Catalog {
	c := &Catalog{
		features: append([]entities.ProductFeature(nil), features...),
		byID:     make(map[string]entities.ProductFeature, len(features)),
	}
	for _, f := range c.features {
		c.byID[f.ID] = f
	}
	return c
}

// Default returns the reference catalog.
func Default() *Catalog {
	return New(referenceFeatures)
}

// ListFeatures returns every feature in catalog order.
func (c *Catalog) ListFeatures() []entities.ProductFeature {
	return append([]entities.ProductFeature(nil), c.features...)
}

func (c *Catalog) Feature(id string) (entities.ProductFeature, bool) {
	f, ok := c.byID[id]
	return f, ok
}

func (c *Catalog) ByCategory(category string) []entities.ProductFeature {
	var out []entities.ProductFeature
	for _, f := range c.features {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// Search matches query against feature names and descriptions, ignoring case.
func (c *Catalog) Search(query string) []entities.ProductFeature {
	q := strings.ToLower(query)
	var out []entities.ProductFeature
	for _, f := range c.features {
		if strings.Contains(strings.ToLower(f.Name), q) || strings.Contains(strings.ToLower(f.Description), q) {
			out = append(out, f)
		}
	}
	return out
}

var referenceFeatures = []entities.ProductFeature{
	{ID: "feat-001", Name: "Basic Integration", Description: "Standard API integration with your existing systems", BasePrice: 10000, IsAddon: false, Category: "integration"},
	{ID: "feat-002", Name: "Advanced Analytics", Description: "Comprehensive data analysis and visualization tools", BasePrice: 15000, IsAddon: true, Category: "analytics"},
	{ID: "feat-003", Name: "Multi-user Access", Description: "Support for multiple user accounts with role-based access control", BasePrice: 5000, IsAddon: false, Category: "access"},
	{ID: "feat-004", Name: "Real-time Notifications", Description: "Instant alerts and notifications for critical events", BasePrice: 3000, IsAddon: true, Category: "communication"},
	{ID: "feat-005", Name: "Custom Reporting", Description: "Tailored reports based on your business requirements", BasePrice: 8000, IsAddon: true, Category: "analytics"},
	{ID: "feat-006", Name: "Mobile Access", Description: "Access your data on the go with mobile applications", BasePrice: 7000, IsAddon: true, Category: "access"},
	{ID: "feat-007", Name: "Enterprise Support", Description: "24/7 premium support with dedicated account manager", BasePrice: 20000, IsAddon: true, Category: "support"},
	{ID: "feat-008", Name: "Data Migration", Description: "Complete transfer of your existing data to our platform", BasePrice: 12000, IsAddon: false, Category: "integration"},
	{ID: "feat-009", Name: "Advanced Security", Description: "Enhanced security features including MFA and encryption", BasePrice: 9000, IsAddon: true, Category: "security"},
	{ID: "feat-010", Name: "Customization", Description: "Tailor the platform to your specific business needs", BasePrice: 25000, IsAddon: true, Category: "customization"},
}
