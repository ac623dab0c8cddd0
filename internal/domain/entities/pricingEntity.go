package entities

type PricingResult struct {
	BasePrice          float64            `json:"base_price" bson:"base_price"`
	DiscountPercentage *float64           `json:"discount_percentage,omitempty" bson:"discount_percentage,omitempty"`
	FinalPrice         float64            `json:"final_price" bson:"final_price"`
	MarginFactor       float64            `json:"margin_factor" bson:"margin_factor"`
	Currency           string             `json:"currency" bson:"currency"`
	Breakdown          map[string]float64 `json:"breakdown,omitempty" bson:"breakdown,omitempty"`
}
