package catalog

import "sales-assistant/internal/domain/entities"

// Deals is an in-memory store of past deals.
type Deals struct {
	deals []entities.HistoricalDeal
}

func NewDeals(deals []entities.HistoricalDeal) *Deals {
	return &Deals{deals: append([]entities.HistoricalDeal(nil), deals...)}
}

// DefaultDeals returns the reference deal history.
func DefaultDeals() *Deals {
	return NewDeals(referenceDeals)
}

// Query returns deals matching every non-empty attribute of filter.
func (d *Deals) Query(filter entities.ClientAttributes) []entities.HistoricalDeal {
	var out []entities.HistoricalDeal
	for _, deal := range d.deals {
		if filter.ClientID != "" && deal.ClientID != filter.ClientID {
			continue
		}
		if filter.Industry != "" && deal.Industry != filter.Industry {
			continue
		}
		if filter.CompanySize != "" && deal.CompanySize != filter.CompanySize {
			continue
		}
		if filter.Region != "" && deal.Region != filter.Region {
			continue
		}
		out = append(out, deal)
	}
	return out
}

var referenceDeals = []entities.HistoricalDeal{
	{ClientID: "client-001", Industry: "healthcare", CompanySize: "large", Region: "north_america", Features: []string{"feat-001", "feat-003", "feat-008", "feat-009"}, BasePrice: 36000, FinalPrice: 41400, MarginFactor: 1.15},
	{ClientID: "client-002", Industry: "finance", CompanySize: "medium", Region: "europe", Features: []string{"feat-001", "feat-002", "feat-003", "feat-005"}, BasePrice: 38000, FinalPrice: 43700, MarginFactor: 1.15},
	{ClientID: "client-003", Industry: "technology", CompanySize: "small", Region: "asia", Features: []string{"feat-001", "feat-003", "feat-006"}, BasePrice: 22000, FinalPrice: 24200, MarginFactor: 1.10},
	{ClientID: "client-004", Industry: "retail", CompanySize: "large", Region: "north_america", Features: []string{"feat-001", "feat-002", "feat-003", "feat-004", "feat-005", "feat-009"}, BasePrice: 50000, FinalPrice: 58500, MarginFactor: 1.17},
	{ClientID: "client-005", Industry: "manufacturing", CompanySize: "medium", Region: "europe", Features: []string{"feat-001", "feat-003", "feat-008", "feat-010"}, BasePrice: 52000, FinalPrice: 59800, MarginFactor: 1.15},
}
