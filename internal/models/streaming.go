package models

type OfferType string

const (
	OfferSubscription OfferType = "subscription"
	OfferFree         OfferType = "free"
	OfferRent         OfferType = "rent"
	OfferBuy          OfferType = "buy"
	OfferAddon        OfferType = "addon"
)

// Priority orders offer types for display; lower sorts first.
func (t OfferType) Priority() int {
	switch t {
	case OfferSubscription:
		return 0
	case OfferFree:
		return 1
	case OfferRent:
		return 2
	case OfferBuy:
		return 3
	default:
		return 4
	}
}

type StreamingOption struct {
	Service string    `json:"service"`
	Type    OfferType `json:"type"`
	Price   string    `json:"price,omitempty"`
	Link    string    `json:"link"`
}

// StreamingResult is the body of the streaming endpoint.
type StreamingResult struct {
	Title            string            `json:"title,omitempty"`
	Year             int               `json:"year,omitempty"`
	StreamingOptions []StreamingOption `json:"streamingOptions"`
	Error            string            `json:"error,omitempty"`
}
