package domain

// FlightLeg is one row of the flights fact table. FlightDate holds the
// DD-MM-YYYY display form.
type FlightLeg struct {
	Price         int64  `json:"price"`
	FlightType    string `json:"FlightType"`
	DepartureCity string `json:"DepartureCity"`
	ArrivalCity   string `json:"ArrivalCity"`
	FlightDate    string `json:"FlightDate"`
	Airline       string `json:"Airline"`
	AirlineCode   string `json:"AirlineCode"`
}

// PriceOption is one priceable itinerary from a grid day cell. Only its legs
// are persisted.
type PriceOption struct {
	Price int64       `json:"price"`
	Legs  []FlightLeg `json:"details"`
}

type DateCount struct {
	FlightDate string `json:"flight_date"`
	Count      int64  `json:"flight_count"`
}

type SearchQuery struct {
	FromEntityID string `json:"fromEntityId"`
	ToEntityID   string `json:"toEntityId"`
	YearMonth    string `json:"yearMonth"`
}
