package service

import (
	"fmt"
	"strconv"

	"github.com/andrewpark0408/SuperFastServer/internal/domain"
)

// shapeListing folds the flat joined rows back into one entry per review.
// Row order carries the sort, so entries keep the first-seen order of their
// review and photos keep their row order. Results and every Photos slice are
// non-nil so the JSON encoding is always an array, never null.
func shapeListing(productID int64, page, count int, rows []domain.ListingRow) *domain.ReviewList {
	results := make([]domain.ReviewEntry, 0, len(rows))
	index := make(map[int64]int, len(rows))

	for _, row := range rows {
		i, seen := index[row.ReviewID]
		if !seen {
			results = append(results, domain.ReviewEntry{
				ReviewID:     row.ReviewID,
				Rating:       row.Rating,
				Summary:      row.Summary,
				Recommend:    row.Recommend,
				Response:     row.Response,
				Body:         row.Body,
				Date:         row.CreatedAt,
				ReviewerName: row.ReviewerName,
				Helpfulness:  row.Helpfulness,
				Photos:       []domain.Photo{},
			})
			i = len(results) - 1
			index[row.ReviewID] = i
		}

		if row.PhotoID != nil && row.PhotoURL != nil {
			results[i].Photos = append(results[i].Photos, domain.Photo{
				ID:  *row.PhotoID,
				URL: *row.PhotoURL,
			})
		}
	}

	return &domain.ReviewList{
		Product: productID,
		Page:    page,
		Count:   count,
		Results: results,
	}
}

// shapeMetadata converts the three aggregation result sets into the external
// metadata shape. Ratings and recommend counts become objects keyed by the
// stringified bucket; characteristic averages are rendered with exactly two
// decimal places. All maps are non-nil even when a product has no reviews.
func shapeMetadata(
	productID int64,
	ratings []domain.RatingCount,
	recommends []domain.RecommendCount,
	characteristics []domain.CharacteristicAverage,
) *domain.Metadata {
	meta := &domain.Metadata{
		ProductID:       productID,
		Ratings:         make(map[string]int, len(ratings)),
		Recommended:     make(map[string]int, len(recommends)),
		Characteristics: make(map[string]domain.CharacteristicSummary, len(characteristics)),
	}

	for _, rc := range ratings {
		meta.Ratings[strconv.Itoa(rc.Rating)] = rc.Count
	}

	for _, rc := range recommends {
		meta.Recommended[strconv.FormatBool(rc.Recommend)] = rc.Count
	}

	for _, ca := range characteristics {
		meta.Characteristics[ca.Name] = domain.CharacteristicSummary{
			ID:    ca.ID,
			Value: fmt.Sprintf("%.2f", ca.Average),
		}
	}

	return meta
}
