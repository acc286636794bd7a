package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	pkgkafka "github.com/andrewpark0408/SuperFastServer/pkg/kafka"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated  = "reviews.review.created"
	TopicReviewHelpful  = "reviews.review.helpful"
	TopicReviewReported = "reviews.review.reported"
)

// Aggregate type constant.
const AggregateTypeReview = "review"

// Source identifier for events originating from the reviews service.
const SourceReviewsService = "reviews-service"

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ReviewID   int64    `json:"review_id"`
	ProductID  int64    `json:"product_id"`
	Rating     int      `json:"rating"`
	Recommend  bool     `json:"recommend"`
	PhotoCount int      `json:"photo_count"`
	Photos     []string `json:"photos,omitempty"`
}

// ReviewHelpfulData is the payload for a review.helpful event.
type ReviewHelpfulData struct {
	ReviewID  int64 `json:"review_id"`
	ProductID int64 `json:"product_id"`
}

// ReviewReportedData is the payload for a review.reported event.
type ReviewReportedData struct {
	ReviewID  int64 `json:"review_id"`
	ProductID int64 `json:"product_id"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the reviews service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, data ReviewCreatedData) error {
	event, err := pkgkafka.NewEvent(TopicReviewCreated, formatID(data.ReviewID), AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.Int64("review_id", data.ReviewID),
		slog.Int64("product_id", data.ProductID),
	)

	return nil
}

// PublishReviewHelpful publishes a review.helpful event.
func (p *Producer) PublishReviewHelpful(ctx context.Context, reviewID, productID int64) error {
	data := ReviewHelpfulData{ReviewID: reviewID, ProductID: productID}

	event, err := pkgkafka.NewEvent(TopicReviewHelpful, formatID(reviewID), AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.helpful event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewHelpful, event); err != nil {
		return fmt.Errorf("publish review.helpful event: %w", err)
	}

	return nil
}

// PublishReviewReported publishes a review.reported event.
func (p *Producer) PublishReviewReported(ctx context.Context, reviewID, productID int64) error {
	data := ReviewReportedData{ReviewID: reviewID, ProductID: productID}

	event, err := pkgkafka.NewEvent(TopicReviewReported, formatID(reviewID), AggregateTypeReview, SourceReviewsService, data)
	if err != nil {
		return fmt.Errorf("create review.reported event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewReported, event); err != nil {
		return fmt.Errorf("publish review.reported event: %w", err)
	}

	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
