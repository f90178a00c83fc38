package domain

// Review is one extracted Google Maps review. JSON tags mirror the cached
// representation.
type Review struct {
	ID            string `json:"id"`
	AuthorName    string `json:"author_name"`
	AuthorImage   string `json:"author_image,omitempty"`
	Rating        int    `json:"rating"`
	Content       string `json:"content"`
	Date          string `json:"date"`
	HelpfulVotes  int    `json:"helpful_votes"`
	OwnerResponse string `json:"owner_response,omitempty"`
	Language      string `json:"language,omitempty"`
}
