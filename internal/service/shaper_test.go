package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpark0408/SuperFastServer/internal/domain"
)

func ptrInt64(v int64) *int64 { return &v }

func ptrString(v string) *string { return &v }

func TestShapeListing_GroupsPhotosPerReview(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []domain.ListingRow{
		{ReviewID: 1, Rating: 5, Summary: "Great", Body: "Loved it", Recommend: true,
			ReviewerName: "amy", Helpfulness: 3, CreatedAt: created,
			PhotoID: ptrInt64(10), PhotoURL: ptrString("https://img.example.com/10.jpg")},
		{ReviewID: 1, Rating: 5, Summary: "Great", Body: "Loved it", Recommend: true,
			ReviewerName: "amy", Helpfulness: 3, CreatedAt: created,
			PhotoID: ptrInt64(11), PhotoURL: ptrString("https://img.example.com/11.jpg")},
		{ReviewID: 2, Rating: 2, Summary: "Meh", Body: "Not for me", Recommend: false,
			ReviewerName: "bob", Helpfulness: 0, CreatedAt: created},
	}

	list := shapeListing(42, 1, 10, rows)

	assert.Equal(t, int64(42), list.Product)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 10, list.Count)
	require.Len(t, list.Results, 2)

	first := list.Results[0]
	assert.Equal(t, int64(1), first.ReviewID)
	require.Len(t, first.Photos, 2)
	assert.Equal(t, int64(10), first.Photos[0].ID)
	assert.Equal(t, int64(11), first.Photos[1].ID)

	second := list.Results[1]
	assert.Equal(t, int64(2), second.ReviewID)
	assert.Empty(t, second.Photos)
}

func TestShapeListing_PreservesRowOrder(t *testing.T) {
	rows := []domain.ListingRow{
		{ReviewID: 9},
		{ReviewID: 3},
		{ReviewID: 7},
	}

	list := shapeListing(42, 1, 10, rows)

	require.Len(t, list.Results, 3)
	assert.Equal(t, int64(9), list.Results[0].ReviewID)
	assert.Equal(t, int64(3), list.Results[1].ReviewID)
	assert.Equal(t, int64(7), list.Results[2].ReviewID)
}

func TestShapeListing_EmptyEncodesAsArrays(t *testing.T) {
	list := shapeListing(42, 1, 10, nil)

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"results":[]`)
}

func TestShapeListing_PhotolessReviewEncodesEmptyArray(t *testing.T) {
	list := shapeListing(42, 1, 10, []domain.ListingRow{{ReviewID: 1}})

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"photos":[]`)
}

func TestShapeMetadata(t *testing.T) {
	meta := shapeMetadata(42,
		[]domain.RatingCount{{Rating: 5, Count: 12}, {Rating: 1, Count: 2}},
		[]domain.RecommendCount{{Recommend: true, Count: 9}, {Recommend: false, Count: 5}},
		[]domain.CharacteristicAverage{
			{ID: 11, Name: "Fit", Average: 3.2549},
			{ID: 12, Name: "Comfort", Average: 4},
		},
	)

	assert.Equal(t, int64(42), meta.ProductID)
	assert.Equal(t, map[string]int{"5": 12, "1": 2}, meta.Ratings)
	assert.Equal(t, map[string]int{"true": 9, "false": 5}, meta.Recommended)

	require.Len(t, meta.Characteristics, 2)
	assert.Equal(t, domain.CharacteristicSummary{ID: 11, Value: "3.25"}, meta.Characteristics["Fit"])
	assert.Equal(t, domain.CharacteristicSummary{ID: 12, Value: "4.00"}, meta.Characteristics["Comfort"])
}

func TestShapeMetadata_NoReviews(t *testing.T) {
	meta := shapeMetadata(42, nil, nil, nil)

	assert.NotNil(t, meta.Ratings)
	assert.NotNil(t, meta.Recommended)
	assert.NotNil(t, meta.Characteristics)

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ratings":{}`)
	assert.Contains(t, string(data), `"recommended":{}`)
	assert.Contains(t, string(data), `"characteristics":{}`)
}
