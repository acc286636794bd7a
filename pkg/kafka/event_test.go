package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type payload struct {
		ReviewID  int64 `json:"review_id"`
		ProductID int64 `json:"product_id"`
	}

	event, err := NewEvent("reviews.review.created", "17", "review", "reviews-service", payload{ReviewID: 17, ProductID: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "reviews.review.created", event.EventType)
	assert.Equal(t, "17", event.AggregateID)
	assert.Equal(t, "review", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "reviews-service", event.Source)
	assert.False(t, event.Timestamp.IsZero())

	var got payload
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, int64(17), got.ReviewID)
	assert.Equal(t, int64(3), got.ProductID)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	event, err := NewEvent("reviews.review.reported", "9", "review", "reviews-service", nil)
	require.NoError(t, err)

	event.WithCorrelationID("corr-123")
	assert.Equal(t, "corr-123", event.CorrelationID)
}
