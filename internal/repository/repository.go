package repository

import (
	"context"

	"github.com/andrewpark0408/SuperFastServer/internal/domain"
)

// ListParams are the storage-level parameters for one listing page.
type ListParams struct {
	ProductID int64
	Page      int
	Count     int
	Sort      domain.Sort
}

// Offset converts the 1-based page into a row offset.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Count
}

// ReviewRepository is the persistence boundary for reviews. Implementations
// must keep multi-row writes atomic: a failed photo or characteristic insert
// aborts the whole review creation.
type ReviewRepository interface {
	// ListWithPhotos returns one page of unreported reviews joined with
	// their photos, ordered by the requested sort. Reviews with several
	// photos produce several rows; pagination counts reviews, not rows.
	ListWithPhotos(ctx context.Context, params ListParams) ([]domain.ListingRow, error)

	// CharacteristicAverages returns the mean characteristic values for a
	// product. Characteristics nobody has rated are absent.
	CharacteristicAverages(ctx context.Context, productID int64) ([]domain.CharacteristicAverage, error)

	// RatingHistogram returns review counts per star rating, including
	// reported reviews.
	RatingHistogram(ctx context.Context, productID int64) ([]domain.RatingCount, error)

	// RecommendCounts returns review counts per recommend flag, including
	// reported reviews.
	RecommendCounts(ctx context.Context, productID int64) ([]domain.RecommendCount, error)

	// Insert atomically persists a review with its photos and
	// characteristic values, returning the new review id.
	Insert(ctx context.Context, review *domain.NewReview) (int64, error)

	// IncrementHelpfulness adds one to a review's helpfulness counter and
	// returns the product the review belongs to.
	IncrementHelpfulness(ctx context.Context, reviewID int64) (int64, error)

	// MarkReported flags a review so listings stop returning it and
	// returns the product the review belongs to. Reporting an already
	// reported review is a no-op that still succeeds.
	MarkReported(ctx context.Context, reviewID int64) (int64, error)
}
