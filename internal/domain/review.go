package domain

import (
	"time"
)

// Sort is the listing sort order requested by the client.
type Sort string

const (
	// SortNewest orders by creation time, newest first.
	SortNewest Sort = "newest"
	// SortHelpful orders by helpfulness, breaking ties by creation time.
	SortHelpful Sort = "helpful"
	// SortRelevant orders by creation time, breaking ties by helpfulness.
	SortRelevant Sort = "relevant"
)

// ParseSort maps a raw query value to a Sort. Unknown values fall back to
// SortNewest rather than failing.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortHelpful:
		return SortHelpful
	case SortRelevant:
		return SortRelevant
	default:
		return SortNewest
	}
}

// Review is a stored product review. The store owns the identity; the
// creation timestamp is always server-assigned.
type Review struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	Rating        int       `json:"rating"`
	Summary       string    `json:"summary"`
	Body          string    `json:"body"`
	Recommend     bool      `json:"recommend"`
	Reported      bool      `json:"reported"`
	ReviewerName  string    `json:"reviewer_name"`
	ReviewerEmail string    `json:"reviewer_email"`
	Response      *string   `json:"response"`
	Helpfulness   int       `json:"helpfulness"`
	CreatedAt     time.Time `json:"created_at"`
}

// Photo is an image attached to a review. Photos are created only inside the
// review's creation transaction and never updated afterwards.
type Photo struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// ListingRow is one flat row of the listing query: a review joined with at
// most one of its photos. PhotoID and PhotoURL are nil when the left join
// produced no photo row.
type ListingRow struct {
	ReviewID     int64
	Rating       int
	Summary      string
	Body         string
	Recommend    bool
	Response     *string
	ReviewerName string
	Helpfulness  int
	CreatedAt    time.Time
	PhotoID      *int64
	PhotoURL     *string
}

// ReviewEntry is one logical review in the external listing response, with
// its photos fanned in.
type ReviewEntry struct {
	ReviewID     int64     `json:"review_id"`
	Rating       int       `json:"rating"`
	Summary      string    `json:"summary"`
	Recommend    bool      `json:"recommend"`
	Response     *string   `json:"response"`
	Body         string    `json:"body"`
	Date         time.Time `json:"date"`
	ReviewerName string    `json:"reviewer_name"`
	Helpfulness  int       `json:"helpfulness"`
	Photos       []Photo   `json:"photos"`
}

// ReviewList is the external response shape for a listing request.
type ReviewList struct {
	Product int64         `json:"product"`
	Page    int           `json:"page"`
	Count   int           `json:"count"`
	Results []ReviewEntry `json:"results"`
}

// CharacteristicAverage is one row of the per-characteristic aggregation
// query. Characteristics without any characteristic reviews never appear.
type CharacteristicAverage struct {
	ID      int64
	Name    string
	Average float64
}

// RatingCount is one bucket of the rating histogram.
type RatingCount struct {
	Rating int
	Count  int
}

// RecommendCount is one bucket of the recommend-flag aggregation.
type RecommendCount struct {
	Recommend bool
	Count     int
}

// CharacteristicSummary is the external shape of an aggregated
// characteristic. Value carries the average formatted to exactly two decimal
// places; the string form is part of the external contract.
type CharacteristicSummary struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// Metadata is the external response shape for aggregated rating metadata.
type Metadata struct {
	ProductID       int64                            `json:"product_id"`
	Ratings         map[string]int                   `json:"ratings"`
	Recommended     map[string]int                   `json:"recommended"`
	Characteristics map[string]CharacteristicSummary `json:"characteristics"`
}

// NewReview is the validated input for creating a review. Characteristics
// maps characteristic id to the reviewer's value for it; Photos preserves the
// caller's order, which becomes the display order.
type NewReview struct {
	ProductID       int64
	Rating          int
	Summary         string
	Body            string
	Recommend       bool
	ReviewerName    string
	ReviewerEmail   string
	Response        *string
	Helpfulness     int
	Photos          []string
	Characteristics map[int64]int
}
