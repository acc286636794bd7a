package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andrewpark0408/SuperFastServer/internal/domain"
	"github.com/andrewpark0408/SuperFastServer/internal/event"
	"github.com/andrewpark0408/SuperFastServer/internal/repository"
	"github.com/andrewpark0408/SuperFastServer/internal/service"
	apperrors "github.com/andrewpark0408/SuperFastServer/pkg/errors"
	pkgkafka "github.com/andrewpark0408/SuperFastServer/pkg/kafka"
)

// --- Mock ReviewRepository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) ListWithPhotos(ctx context.Context, params repository.ListParams) ([]domain.ListingRow, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingRow), args.Error(1)
}

func (m *mockReviewRepository) CharacteristicAverages(ctx context.Context, productID int64) ([]domain.CharacteristicAverage, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CharacteristicAverage), args.Error(1)
}

func (m *mockReviewRepository) RatingHistogram(ctx context.Context, productID int64) ([]domain.RatingCount, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RatingCount), args.Error(1)
}

func (m *mockReviewRepository) RecommendCounts(ctx context.Context, productID int64) ([]domain.RecommendCount, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecommendCount), args.Error(1)
}

func (m *mockReviewRepository) Insert(ctx context.Context, review *domain.NewReview) (int64, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewRepository) IncrementHelpfulness(ctx context.Context, reviewID int64) (int64, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewRepository) MarkReported(ctx context.Context, reviewID int64) (int64, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Pass-through cache ---

// nopCache always misses and discards writes, so handler tests exercise the
// store path.
type nopCache struct{}

func (nopCache) Get(ctx context.Context, key string, dest any) (bool, error) { return false, nil }
func (nopCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (nopCache) Delete(ctx context.Context, keys ...string) error        { return nil }
func (nopCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (nopCache) Ping(ctx context.Context) error                          { return nil }

// --- Test Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:19092"}), logger)
	return event.NewProducer(kafkaProducer, logger)
}

func testRouter(repo *mockReviewRepository) http.Handler {
	logger := testLogger()
	svc := service.NewReviewService(repo, nopCache{}, testEventProducer(), logger, time.Hour)
	handler := NewReviewHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/reviews", handler.ListReviews)
	r.Get("/reviews/meta", handler.GetMetadata)
	r.With(ContentTypeJSON).Post("/reviews", handler.AddReview)
	r.Put("/reviews/{review_id}/helpful", handler.MarkHelpful)
	r.Put("/reviews/{review_id}/report", handler.ReportReview)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

// --- ListReviews ---

func TestReviewHandler_ListReviews(t *testing.T) {
	repo := new(mockReviewRepository)
	repo.On("ListWithPhotos", mock.Anything, repository.ListParams{
		ProductID: 42, Page: 2, Count: 5, Sort: domain.SortHelpful,
	}).Return([]domain.ListingRow{{ReviewID: 7, Rating: 4}}, nil)

	router := testRouter(repo)
	req := httptest.NewRequest(http.MethodGet, "/reviews?product_id=42&page=2&count=5&sort=helpful", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var list domain.ReviewList
	envelope := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(envelope["data"], &list))
	assert.Equal(t, int64(42), list.Product)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 5, list.Count)
	require.Len(t, list.Results, 1)
	assert.Equal(t, int64(7), list.Results[0].ReviewID)

	repo.AssertExpectations(t)
}

func TestReviewHandler_ListReviews_MissingProductID(t *testing.T) {
	router := testRouter(new(mockReviewRepository))
	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewHandler_ListReviews_StoreFailureIsGeneric500(t *testing.T) {
	repo := new(mockReviewRepository)
	repo.On("ListWithPhotos", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	router := testRouter(repo)
	req := httptest.NewRequest(http.MethodGet, "/reviews?product_id=42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "an internal error occurred")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

// --- GetMetadata ---

func TestReviewHandler_GetMetadata(t *testing.T) {
	repo := new(mockReviewRepository)
	repo.On("RatingHistogram", mock.Anything, int64(42)).
		Return([]domain.RatingCount{{Rating: 5, Count: 2}}, nil)
	repo.On("RecommendCounts", mock.Anything, int64(42)).
		Return([]domain.RecommendCount{{Recommend: true, Count: 2}}, nil)
	repo.On("CharacteristicAverages", mock.Anything, int64(42)).
		Return([]domain.CharacteristicAverage{{ID: 11, Name: "Fit", Average: 4.25}}, nil)

	router := testRouter(repo)
	req := httptest.NewRequest(http.MethodGet, "/reviews/meta?product_id=42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var meta domain.Metadata
	envelope := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(envelope["data"], &meta))
	assert.Equal(t, int64(42), meta.ProductID)
	assert.Equal(t, map[string]int{"5": 2}, meta.Ratings)
	assert.Equal(t, "4.25", meta.Characteristics["Fit"].Value)
}

// --- AddReview ---

func validAddBody() map[string]any {
	return map[string]any{
		"product_id": 42,
		"rating":     4,
		"summary":    "Solid",
		"body":       "Does what it says",
		"recommend":  true,
		"name":       "amy",
		"email":      "amy@example.com",
		"photos":     []string{"https://img.example.com/a.jpg"},
		"characteristics": map[string]int{
			"11": 3,
		},
	}
}

func postReview(t *testing.T, router http.Handler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReviewHandler_AddReview_Created(t *testing.T) {
	repo := new(mockReviewRepository)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(nr *domain.NewReview) bool {
		return nr.ProductID == 42 && nr.Characteristics[11] == 3
	})).Return(int64(101), nil)

	router := testRouter(repo)
	rec := postReview(t, router, validAddBody())

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"review_id":101`)

	repo.AssertExpectations(t)
}

func TestReviewHandler_AddReview_ValidationError(t *testing.T) {
	repo := new(mockReviewRepository)
	router := testRouter(repo)

	body := validAddBody()
	body["rating"] = 9

	rec := postReview(t, router, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestReviewHandler_AddReview_MissingSummary(t *testing.T) {
	repo := new(mockReviewRepository)
	router := testRouter(repo)

	body := validAddBody()
	delete(body, "summary")

	rec := postReview(t, router, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestReviewHandler_AddReview_OptionalResponseAndHelpfulness(t *testing.T) {
	repo := new(mockReviewRepository)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(nr *domain.NewReview) bool {
		return nr.Response != nil && *nr.Response == "We appreciate it!" && nr.Helpfulness == 4
	})).Return(int64(102), nil)

	router := testRouter(repo)

	body := validAddBody()
	body["response"] = "We appreciate it!"
	body["helpfulness"] = 4

	rec := postReview(t, router, body)

	require.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertExpectations(t)
}

func TestReviewHandler_AddReview_NegativeHelpfulness(t *testing.T) {
	router := testRouter(new(mockReviewRepository))

	body := validAddBody()
	body["helpfulness"] = -3

	rec := postReview(t, router, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewHandler_AddReview_MissingRecommend(t *testing.T) {
	router := testRouter(new(mockReviewRepository))

	body := validAddBody()
	delete(body, "recommend")

	rec := postReview(t, router, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewHandler_AddReview_BadCharacteristicKey(t *testing.T) {
	router := testRouter(new(mockReviewRepository))

	body := validAddBody()
	body["characteristics"] = map[string]int{"not-a-number": 3}

	rec := postReview(t, router, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewHandler_AddReview_WrongContentType(t *testing.T) {
	router := testRouter(new(mockReviewRepository))

	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader([]byte("product_id=42")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestReviewHandler_AddReview_MalformedJSON(t *testing.T) {
	router := testRouter(new(mockReviewRepository))

	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader([]byte(`{"product_id":`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- MarkHelpful / ReportReview ---

func TestReviewHandler_MarkHelpful_NoContent(t *testing.T) {
	repo := new(mockReviewRepository)
	repo.On("IncrementHelpfulness", mock.Anything, int64(101)).Return(int64(42), nil)

	router := testRouter(repo)
	req := httptest.NewRequest(http.MethodPut, "/reviews/101/helpful", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestReviewHandler_MarkHelpful_NotFound(t *testing.T) {
	repo := new(mockReviewRepository)
	repo.On("IncrementHelpfulness", mock.Anything, int64(999)).
		Return(int64(0), apperrors.NotFound("review", "999"))

	router := testRouter(repo)
	req := httptest.NewRequest(http.MethodPut, "/reviews/999/helpful", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewHandler_MarkHelpful_BadID(t *testing.T) {
	router := testRouter(new(mockReviewRepository))
	req := httptest.NewRequest(http.MethodPut, "/reviews/abc/helpful", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewHandler_ReportReview_NoContent(t *testing.T) {
	repo := new(mockReviewRepository)
	repo.On("MarkReported", mock.Anything, int64(101)).Return(int64(42), nil)

	router := testRouter(repo)
	req := httptest.NewRequest(http.MethodPut, "/reviews/101/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
