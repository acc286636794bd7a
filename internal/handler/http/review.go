package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andrewpark0408/SuperFastServer/internal/service"
	"github.com/andrewpark0408/SuperFastServer/pkg/httputil"
	"github.com/andrewpark0408/SuperFastServer/pkg/pagination"
	"github.com/andrewpark0408/SuperFastServer/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddReviewRequest is the JSON request body for creating a review.
// Characteristic keys arrive as strings because JSON object keys always do.
type AddReviewRequest struct {
	ProductID       int64          `json:"product_id" validate:"required,gt=0"`
	Rating          int            `json:"rating" validate:"required,min=1,max=5"`
	Summary         string         `json:"summary" validate:"required,max=255"`
	Body            string         `json:"body" validate:"required,max=1000"`
	Recommend       *bool          `json:"recommend" validate:"required"`
	Name            string         `json:"name" validate:"required,max=60"`
	Email           string         `json:"email" validate:"required,email,max=60"`
	Response        *string        `json:"response" validate:"omitempty,max=1000"`
	Helpfulness     int            `json:"helpfulness" validate:"gte=0"`
	Photos          []string       `json:"photos" validate:"omitempty,max=10,dive,url"`
	Characteristics map[string]int `json:"characteristics" validate:"omitempty,dive,min=1,max=5"`
}

// --- Handlers ---

// ListReviews handles GET /reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	p := pagination.FromRequest(r)

	list, err := h.service.ListReviews(r.Context(), service.ListReviewsInput{
		ProductID: productID,
		Page:      p.Page,
		Count:     p.Count,
		Sort:      r.URL.Query().Get("sort"),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: list})
}

// GetMetadata handles GET /reviews/meta
func (h *ReviewHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	meta, err := h.service.GetMetadata(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: meta})
}

// AddReview handles POST /reviews
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	characteristics := make(map[int64]int, len(req.Characteristics))
	for rawID, value := range req.Characteristics {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "characteristic ids must be positive integers"},
			})
			return
		}
		characteristics[id] = value
	}

	reviewID, err := h.service.AddReview(r.Context(), service.AddReviewInput{
		ProductID:       req.ProductID,
		Rating:          req.Rating,
		Summary:         req.Summary,
		Body:            req.Body,
		Recommend:       *req.Recommend,
		Name:            req.Name,
		Email:           req.Email,
		Response:        req.Response,
		Helpfulness:     req.Helpfulness,
		Photos:          req.Photos,
		Characteristics: characteristics,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]int64{"review_id": reviewID},
	})
}

// MarkHelpful handles PUT /reviews/{review_id}/helpful
func (h *ReviewHandler) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := parseReviewID(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkHelpful(r.Context(), reviewID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteNoContent(w)
}

// ReportReview handles PUT /reviews/{review_id}/report
func (h *ReviewHandler) ReportReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := parseReviewID(w, r)
	if !ok {
		return
	}

	if err := h.service.ReportReview(r.Context(), reviewID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteNoContent(w)
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("product_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "product_id must be a valid positive integer"},
		})
		return 0, false
	}
	return id, true
}

func parseReviewID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "review_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "review_id must be a valid positive integer"},
		})
		return 0, false
	}
	return id, true
}
