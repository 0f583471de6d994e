package domain

// SearchResult is what a completed search renders.
type SearchResult struct {
	SearchID    string      `json:"search_id"`
	Query       SearchQuery `json:"query"`
	LeastPrice  int64       `json:"least_price"`
	Legs        []FlightLeg `json:"flight_details"`
	Options     int         `json:"options"`
	LegsStored  int         `json:"legs_stored"`
	ImageBase64 string      `json:"image_base64"`
	ImageURI    string      `json:"-"`
}
