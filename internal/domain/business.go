package domain

type OpeningHours struct {
	Day   string `json:"day"`
	Hours string `json:"hours"`
}

// BusinessInfo is the place-level record extracted alongside reviews.
// Rating 0 means "no rating yet" and is valid here, unlike Review.Rating.
type BusinessInfo struct {
	Name        string         `json:"name"`
	Address     string         `json:"address,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Website     string         `json:"website,omitempty"`
	Rating      float64        `json:"rating"`
	ReviewCount int            `json:"review_count"`
	Category    string         `json:"category,omitempty"`
	Hours       []OpeningHours `json:"hours,omitempty"`
}
