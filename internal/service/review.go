package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/andrewpark0408/SuperFastServer/internal/cache"
	"github.com/andrewpark0408/SuperFastServer/internal/domain"
	"github.com/andrewpark0408/SuperFastServer/internal/event"
	"github.com/andrewpark0408/SuperFastServer/internal/repository"
	apperrors "github.com/andrewpark0408/SuperFastServer/pkg/errors"
)

const (
	defaultPage  = 1
	defaultCount = 10
	maxCount     = 100
)

// ReviewService implements the business logic for review operations. Reads
// go through the cache; writes go to the store first and invalidate the
// affected product's cache entries only after the store confirms.
type ReviewService struct {
	repo     repository.ReviewRepository
	cache    cache.Cache
	producer *event.Producer
	logger   *slog.Logger
	cacheTTL time.Duration
}

// NewReviewService creates a new review service.
func NewReviewService(
	repo repository.ReviewRepository,
	c cache.Cache,
	producer *event.Producer,
	logger *slog.Logger,
	cacheTTL time.Duration,
) *ReviewService {
	return &ReviewService{
		repo:     repo,
		cache:    c,
		producer: producer,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// ListReviewsInput holds the parameters for a listing request.
type ListReviewsInput struct {
	ProductID int64
	Page      int
	Count     int
	Sort      string
}

// normalize applies listing defaults. Out-of-range paging values are clamped
// rather than rejected.
func (in *ListReviewsInput) normalize() {
	if in.Page <= 0 {
		in.Page = defaultPage
	}
	if in.Count <= 0 {
		in.Count = defaultCount
	}
	if in.Count > maxCount {
		in.Count = maxCount
	}
}

// ListReviews returns one page of a product's unreported reviews. A cache
// failure on either side is absorbed: the request falls through to the store
// and the response is still served.
func (s *ReviewService) ListReviews(ctx context.Context, input ListReviewsInput) (*domain.ReviewList, error) {
	if input.ProductID <= 0 {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	input.normalize()
	sort := domain.ParseSort(input.Sort)

	key := cache.ListKey(input.ProductID, input.Page, input.Count, string(sort))

	var cached domain.ReviewList
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, falling through to store",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	if hit {
		return &cached, nil
	}

	rows, err := s.repo.ListWithPhotos(ctx, repository.ListParams{
		ProductID: input.ProductID,
		Page:      input.Page,
		Count:     input.Count,
		Sort:      sort,
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	list := shapeListing(input.ProductID, input.Page, input.Count, rows)

	if err := s.cache.Set(ctx, key, list, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return list, nil
}

// GetMetadata returns the aggregated rating metadata for a product. Products
// with no reviews yield empty maps, not an error.
func (s *ReviewService) GetMetadata(ctx context.Context, productID int64) (*domain.Metadata, error) {
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product_id is required")
	}

	key := cache.MetaKey(productID)

	var cached domain.Metadata
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, falling through to store",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	if hit {
		return &cached, nil
	}

	ratings, err := s.repo.RatingHistogram(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("rating histogram: %w", err)
	}

	recommends, err := s.repo.RecommendCounts(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("recommend counts: %w", err)
	}

	characteristics, err := s.repo.CharacteristicAverages(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("characteristic averages: %w", err)
	}

	meta := shapeMetadata(productID, ratings, recommends, characteristics)

	if err := s.cache.Set(ctx, key, meta, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return meta, nil
}

// AddReviewInput holds the parameters for creating a review. Response and
// Helpfulness are optional; a nil Response means the seller has not replied
// and Helpfulness seeds the counter (imported reviews arrive with votes).
type AddReviewInput struct {
	ProductID       int64
	Rating          int
	Summary         string
	Body            string
	Recommend       bool
	Name            string
	Email           string
	Response        *string
	Helpfulness     int
	Photos          []string
	Characteristics map[int64]int
}

func (in AddReviewInput) validate() error {
	if in.ProductID <= 0 {
		return apperrors.InvalidInput("product_id is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Summary) == "" {
		return apperrors.InvalidInput("summary is required")
	}
	if strings.TrimSpace(in.Body) == "" {
		return apperrors.InvalidInput("body is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return apperrors.InvalidInput("name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return apperrors.InvalidInput("email is required")
	}
	if in.Helpfulness < 0 {
		return apperrors.InvalidInput("helpfulness must not be negative")
	}
	for _, url := range in.Photos {
		if strings.TrimSpace(url) == "" {
			return apperrors.InvalidInput("photo urls must not be empty")
		}
	}
	for id, value := range in.Characteristics {
		if id <= 0 {
			return apperrors.InvalidInput("characteristic ids must be positive")
		}
		if value < 1 || value > 5 {
			return apperrors.InvalidInput("characteristic values must be between 1 and 5")
		}
	}
	return nil
}

// AddReview persists a new review with its photos and characteristic values,
// then drops the product's cached pages so the next read sees it.
func (s *ReviewService) AddReview(ctx context.Context, input AddReviewInput) (int64, error) {
	if err := input.validate(); err != nil {
		return 0, err
	}

	reviewID, err := s.repo.Insert(ctx, &domain.NewReview{
		ProductID:       input.ProductID,
		Rating:          input.Rating,
		Summary:         input.Summary,
		Body:            input.Body,
		Recommend:       input.Recommend,
		ReviewerName:    input.Name,
		ReviewerEmail:   input.Email,
		Response:        input.Response,
		Helpfulness:     input.Helpfulness,
		Photos:          input.Photos,
		Characteristics: input.Characteristics,
	})
	if err != nil {
		return 0, fmt.Errorf("add review: %w", err)
	}

	s.invalidateListings(ctx, input.ProductID)
	s.invalidateMetadata(ctx, input.ProductID)

	if err := s.producer.PublishReviewCreated(ctx, event.ReviewCreatedData{
		ReviewID:   reviewID,
		ProductID:  input.ProductID,
		Rating:     input.Rating,
		Recommend:  input.Recommend,
		PhotoCount: len(input.Photos),
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.Int64("review_id", reviewID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review created",
		slog.Int64("review_id", reviewID),
		slog.Int64("product_id", input.ProductID),
		slog.Int("rating", input.Rating),
	)

	return reviewID, nil
}

// MarkHelpful increments a review's helpfulness counter. Repeat calls keep
// counting; there is no per-caller dedupe.
func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID int64) error {
	if reviewID <= 0 {
		return apperrors.InvalidInput("review_id is required")
	}

	productID, err := s.repo.IncrementHelpfulness(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("mark helpful: %w", err)
	}

	// Helpfulness shows up in listings but not in the metadata aggregates.
	s.invalidateListings(ctx, productID)

	if err := s.producer.PublishReviewHelpful(ctx, reviewID, productID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.helpful event",
			slog.Int64("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ReportReview flags a review so listings stop returning it. The review
// still counts toward the metadata aggregates. Reporting twice succeeds.
func (s *ReviewService) ReportReview(ctx context.Context, reviewID int64) error {
	if reviewID <= 0 {
		return apperrors.InvalidInput("review_id is required")
	}

	productID, err := s.repo.MarkReported(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("report review: %w", err)
	}

	s.invalidateListings(ctx, productID)

	if err := s.producer.PublishReviewReported(ctx, reviewID, productID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.reported event",
			slog.Int64("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review reported",
		slog.Int64("review_id", reviewID),
		slog.Int64("product_id", productID),
	)

	return nil
}

// invalidateListings drops every cached listing page for a product. A
// failure here leaves stale entries until their TTL; the write itself has
// already committed, so the operation does not fail.
func (s *ReviewService) invalidateListings(ctx context.Context, productID int64) {
	if err := s.cache.DeletePattern(ctx, cache.ListPattern(productID)); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate cached listings",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

// invalidateMetadata drops a product's cached metadata.
func (s *ReviewService) invalidateMetadata(ctx context.Context, productID int64) {
	if err := s.cache.Delete(ctx, cache.MetaKey(productID)); err != nil {
		s.logger.ErrorContext(ctx, "failed to invalidate cached metadata",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
