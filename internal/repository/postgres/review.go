package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/andrewpark0408/SuperFastServer/internal/domain"
	"github.com/andrewpark0408/SuperFastServer/internal/repository"
	"github.com/andrewpark0408/SuperFastServer/pkg/database"
	apperrors "github.com/andrewpark0408/SuperFastServer/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// ListWithPhotos returns one page of unreported reviews joined with their
// photos.
func (r *ReviewRepository) ListWithPhotos(ctx context.Context, params repository.ListParams) ([]domain.ListingRow, error) {
	query := listingQuery(params.Sort)

	rows, err := r.pool.Query(ctx, query, params.ProductID, params.Count, params.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var result []domain.ListingRow
	for rows.Next() {
		var row domain.ListingRow
		if err := rows.Scan(
			&row.ReviewID,
			&row.Rating,
			&row.Summary,
			&row.Body,
			&row.Recommend,
			&row.Response,
			&row.ReviewerName,
			&row.Helpfulness,
			&row.CreatedAt,
			&row.PhotoID,
			&row.PhotoURL,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return result, nil
}

// CharacteristicAverages returns the mean characteristic values for a
// product.
func (r *ReviewRepository) CharacteristicAverages(ctx context.Context, productID int64) ([]domain.CharacteristicAverage, error) {
	rows, err := r.pool.Query(ctx, characteristicAveragesQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("characteristic averages: %w", err)
	}
	defer rows.Close()

	var result []domain.CharacteristicAverage
	for rows.Next() {
		var avg domain.CharacteristicAverage
		if err := rows.Scan(&avg.ID, &avg.Name, &avg.Average); err != nil {
			return nil, fmt.Errorf("scan characteristic average: %w", err)
		}
		result = append(result, avg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characteristic averages: %w", err)
	}

	return result, nil
}

// RatingHistogram returns review counts per star rating.
func (r *ReviewRepository) RatingHistogram(ctx context.Context, productID int64) ([]domain.RatingCount, error) {
	rows, err := r.pool.Query(ctx, ratingHistogramQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("rating histogram: %w", err)
	}
	defer rows.Close()

	var result []domain.RatingCount
	for rows.Next() {
		var rc domain.RatingCount
		if err := rows.Scan(&rc.Rating, &rc.Count); err != nil {
			return nil, fmt.Errorf("scan rating count: %w", err)
		}
		result = append(result, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating counts: %w", err)
	}

	return result, nil
}

// RecommendCounts returns review counts per recommend flag.
func (r *ReviewRepository) RecommendCounts(ctx context.Context, productID int64) ([]domain.RecommendCount, error) {
	rows, err := r.pool.Query(ctx, recommendCountsQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("recommend counts: %w", err)
	}
	defer rows.Close()

	var result []domain.RecommendCount
	for rows.Next() {
		var rc domain.RecommendCount
		if err := rows.Scan(&rc.Recommend, &rc.Count); err != nil {
			return nil, fmt.Errorf("scan recommend count: %w", err)
		}
		result = append(result, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommend counts: %w", err)
	}

	return result, nil
}

// Insert persists a review together with its photos and characteristic
// values in one transaction.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.NewReview) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reviewQuery := `
		INSERT INTO reviews (product_id, rating, summary, body, recommend, reviewer_name, reviewer_email, response, helpfulness, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id`

	var reviewID int64
	err = tx.QueryRow(ctx, reviewQuery,
		review.ProductID,
		review.Rating,
		review.Summary,
		review.Body,
		review.Recommend,
		review.ReviewerName,
		review.ReviewerEmail,
		review.Response,
		review.Helpfulness,
	).Scan(&reviewID)
	if err != nil {
		return 0, fmt.Errorf("insert review: %w", err)
	}

	photoQuery := `
		INSERT INTO review_photos (review_id, url, sort_order)
		VALUES ($1, $2, $3)`

	for i, url := range review.Photos {
		if _, err := tx.Exec(ctx, photoQuery, reviewID, url, i); err != nil {
			return 0, fmt.Errorf("insert review photo: %w", err)
		}
	}

	charQuery := `
		INSERT INTO characteristic_reviews (characteristic_id, review_id, value)
		VALUES ($1, $2, $3)`

	// Insert in ascending characteristic id order so concurrent
	// transactions touching the same characteristics cannot deadlock.
	charIDs := make([]int64, 0, len(review.Characteristics))
	for id := range review.Characteristics {
		charIDs = append(charIDs, id)
	}
	sort.Slice(charIDs, func(i, j int) bool { return charIDs[i] < charIDs[j] })

	for _, charID := range charIDs {
		if _, err := tx.Exec(ctx, charQuery, charID, reviewID, review.Characteristics[charID]); err != nil {
			return 0, fmt.Errorf("insert characteristic value: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return reviewID, nil
}

// IncrementHelpfulness adds one to a review's helpfulness counter and
// returns the owning product id.
func (r *ReviewRepository) IncrementHelpfulness(ctx context.Context, reviewID int64) (int64, error) {
	query := `
		UPDATE reviews
		SET helpfulness = helpfulness + 1
		WHERE id = $1
		RETURNING product_id`

	var productID int64
	if err := r.pool.QueryRow(ctx, query, reviewID).Scan(&productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("review", strconv.FormatInt(reviewID, 10))
		}
		return 0, fmt.Errorf("increment helpfulness: %w", err)
	}

	return productID, nil
}

// MarkReported flags a review as reported and returns the owning product id.
// Flagging an already reported review succeeds without further effect.
func (r *ReviewRepository) MarkReported(ctx context.Context, reviewID int64) (int64, error) {
	query := `
		UPDATE reviews
		SET reported = TRUE
		WHERE id = $1
		RETURNING product_id`

	var productID int64
	if err := r.pool.QueryRow(ctx, query, reviewID).Scan(&productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("review", strconv.FormatInt(reviewID, 10))
		}
		return 0, fmt.Errorf("mark reported: %w", err)
	}

	return productID, nil
}
