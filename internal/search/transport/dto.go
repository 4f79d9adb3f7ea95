package transport

import "time"

type SearchRequest struct {
	Query string `form:"q" validate:"required,min=2,max=100"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchResultItem struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`     // "vcard", "catalogue", "product"
	Title     string    `json:"title"`    // Name or catalogue title
	Subtitle  string    `json:"subtitle"` // Company, or the catalogue a product belongs to
	Link      string    `json:"link"`     // Public page
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}
