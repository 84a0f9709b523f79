package catalog

// Source identifies the marketplace a listing came from.
type Source string

const (
	SourceBestBuy Source = "bestbuy"
	SourceEbay    Source = "ebay"
)

// Condition is the seller-declared product condition. A nil *Condition on a
// Listing means the source did not report one.
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionRefurbished Condition = "refurb"
	ConditionUsed        Condition = "used"
)

// ParseCondition maps a request token to a Condition. ok is false for tokens
// that no connector emits.
func ParseCondition(s string) (Condition, bool) {
	switch Condition(s) {
	case ConditionNew, ConditionRefurbished, ConditionUsed:
		return Condition(s), true
	}
	return "", false
}

// Listing is one normalized product offer from one source. Connectors own
// construction and guarantee TotalCost == Price + shipping (0 when shipping
// is unknown); scoring never recomputes it.
type Listing struct {
	ID       string `json:"id"`
	Source   Source `json:"source"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url,omitempty"`

	// Pricing
	Price        float64  `json:"price"`
	ShippingCost *float64 `json:"shipping_cost,omitempty"`
	TotalCost    float64  `json:"total_cost"`

	// Condition & delivery
	Condition  *Condition `json:"condition,omitempty"`
	ETAMinDays *int       `json:"eta_min_days,omitempty"`
	ETAMaxDays *int       `json:"eta_max_days,omitempty"`

	// Seller & returns
	ReturnWindowDays    *int     `json:"return_window_days,omitempty"`
	SellerRating        *float64 `json:"seller_rating,omitempty"` // 0-100
	SellerFeedbackCount *int     `json:"seller_feedback_count,omitempty"`

	// Warranty
	WarrantyMonths *int `json:"warranty_months,omitempty"`

	// Category-specific specs, e.g. {"wireless": true}
	Specs map[string]any `json:"specs,omitempty"`

	// Raw API response snippet for diagnostics
	Raw map[string]any `json:"raw,omitempty"`
}
