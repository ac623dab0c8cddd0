package entities

type ProductFeature struct {
	ID          string  `json:"id" bson:"id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	BasePrice   float64 `json:"base_price" bson:"base_price"`
	IsAddon     bool    `json:"is_addon" bson:"is_addon"`
	Category    string  `json:"category" bson:"category"`
}

type HistoricalDeal struct {
	ClientID     string   `json:"client_id" bson:"client_id"`
	Industry     string   `json:"industry" bson:"industry"`
	CompanySize  string   `json:"company_size" bson:"company_size"`
	Region       string   `json:"region" bson:"region"`
	Features     []string `json:"features" bson:"features"`
	BasePrice    float64  `json:"base_price" bson:"base_price"`
	FinalPrice   float64  `json:"final_price" bson:"final_price"`
	MarginFactor float64  `json:"margin_factor" bson:"margin_factor"`
}

// ClientAttributes narrows historical deal lookups. Empty fields match anything.
type ClientAttributes struct {
	ClientID    string `json:"client_id,omitempty"`
	Industry    string `json:"industry,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Region      string `json:"region,omitempty"`
}
