package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tradelink/middleware"
	"tradelink/models"
	"tradelink/services/contact"
	"tradelink/services/directory"
	"tradelink/services/registration"
	"tradelink/services/review"
	"tradelink/services/search"
	"tradelink/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type DirectoryHandler struct {
	Store *directory.Store
}

func NewDirectoryHandler(store *directory.Store) *DirectoryHandler {
	return &DirectoryHandler{Store: store}
}

type categorySummary struct {
	models.Category
	Count int `json:"count"`
}

// ListCategoriesHandler handles GET /api/categories.
func (h *DirectoryHandler) ListCategoriesHandler(c *gin.Context) {
	cats := models.Categories()
	out := make([]categorySummary, len(cats))
	for i, cat := range cats {
		out[i] = categorySummary{Category: cat, Count: len(h.Store.List(cat.ID))}
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// ListSpecialistsHandler handles GET /api/categories/:id/specialists?q=.
// An empty result is a normal response.
func (h *DirectoryHandler) ListSpecialistsHandler(c *gin.Context) {
	cat, ok := models.LookupCategory(c.Param("id"))
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Category not found", c.Param("id"))
		return
	}
	ranked := search.FilterAndRank(h.Store.List(cat.ID), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"category":    cat,
		"specialists": ranked,
		"total":       len(ranked),
	})
}

// GetSpecialistHandler handles GET /api/specialists/:id?q=. The rank is
// computed against the same filtered list the category page shows.
func (h *DirectoryHandler) GetSpecialistHandler(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	resp := gin.H{"specialist": rec, "contact": contact.For(*rec)}
	if rank, total, found := search.RankOf(h.Store.List(rec.CategoryID), c.Query("q"), rec.ID); found {
		resp["rank"] = rank
		resp["total"] = total
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitReviewHandler handles POST /api/specialists/:id/reviews.
func (h *DirectoryHandler) SubmitReviewHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	var in review.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid review", err.Error())
		return
	}
	if strings.TrimSpace(in.Reviewer) == "" {
		if u, ok := middleware.CurrentIdentity(c); ok {
			in.Reviewer = u.Name
		}
	}

	rec, err := h.Store.ApplyReview(c.Request.Context(), id, in)
	if !h.respond(c, rec, err) {
		return
	}
	logger.Info("Review submitted", zap.String("id", id), zap.Int("rating", in.Rating))
	c.JSON(http.StatusCreated, rec)
}

// reviewOwnedFields are the keys a PATCH body may not carry. They change
// only when a review is submitted.
type reviewOwnedFields struct {
	Rating   json.RawMessage `json:"rating"`
	Reviews  json.RawMessage `json:"reviews"`
	Comments json.RawMessage `json:"comments"`
}

func (f reviewOwnedFields) present() []string {
	var out []string
	if f.Rating != nil {
		out = append(out, "rating")
	}
	if f.Reviews != nil {
		out = append(out, "reviews")
	}
	if f.Comments != nil {
		out = append(out, "comments")
	}
	return out
}

// UpdateSpecialistHandler handles PATCH /api/specialists/:id.
func (h *DirectoryHandler) UpdateSpecialistHandler(c *gin.Context) {
	var patch directory.Patch
	if err := c.ShouldBindBodyWith(&patch, binding.JSON); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid update", err.Error())
		return
	}
	var owned reviewOwnedFields
	if err := c.ShouldBindBodyWith(&owned, binding.JSON); err == nil {
		if fields := owned.present(); len(fields) > 0 {
			utils.JSONFieldError(c, "Ratings, review counts and comments change only through reviews", fields)
			return
		}
	}
	if patch.Availability != nil && !patch.Availability.Valid() {
		utils.JSONFieldError(c, "Unknown availability", []string{"availability"})
		return
	}
	rec, err := h.Store.UpdateSpecialist(c.Request.Context(), c.Param("id"), patch)
	if !h.respond(c, rec, err) {
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ToggleAvailabilityHandler handles POST /api/specialists/:id/availability.
func (h *DirectoryHandler) ToggleAvailabilityHandler(c *gin.Context) {
	rec, err := h.Store.ToggleAvailability(c.Request.Context(), c.Param("id"))
	if !h.respond(c, rec, err) {
		return
	}
	c.JSON(http.StatusOK, rec)
}

type imageRequest struct {
	Image string `json:"image"`
}

// SetProfileImageHandler handles PUT /api/specialists/:id/image. An empty
// image resets to the category icon.
func (h *DirectoryHandler) SetProfileImageHandler(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid image request", err.Error())
		return
	}
	current, ok := h.lookup(c)
	if !ok {
		return
	}

	img := models.IconImage(current.CategoryID)
	if uri := strings.TrimSpace(req.Image); uri != "" {
		if !registration.IsImageDataURI(uri) {
			utils.JSONFieldError(c, "Image must be a base64 data URI of an image", []string{"image"})
			return
		}
		img = models.UploadedImage(uri)
	}

	rec, err := h.Store.SetProfileImage(c.Request.Context(), current.ID, img)
	if !h.respond(c, rec, err) {
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ContactHandler handles GET /api/specialists/:id/contact.
func (h *DirectoryHandler) ContactHandler(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, contact.For(*rec))
}

type quoteRequest struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// QuoteHandler handles POST /api/specialists/:id/quote.
func (h *DirectoryHandler) QuoteHandler(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid quote request", err.Error())
		return
	}
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	if strings.TrimSpace(req.From) == "" {
		if u, ok := middleware.CurrentIdentity(c); ok {
			req.From = u.Name
		}
	}

	link, err := contact.Quote(*rec, req.From, req.Message)
	if err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Specialist cannot be contacted by email", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

func (h *DirectoryHandler) lookup(c *gin.Context) (*models.Specialist, bool) {
	id := c.Param("id")
	rec, err := h.Store.Get(id)
	if err != nil && !errors.Is(err, directory.ErrSpecialistNotFound) {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load specialist", err.Error())
		return nil, false
	}
	if rec == nil {
		utils.JSONError(c, http.StatusNotFound, "Specialist not found", id)
		return nil, false
	}
	return rec, true
}

// respond writes the error response for a store mutation, if any, and
// reports whether the caller should go on to write the record.
func (h *DirectoryHandler) respond(c *gin.Context, rec *models.Specialist, err error) bool {
	switch {
	case errors.Is(err, review.ErrInvalidRating):
		utils.JSONFieldError(c, err.Error(), []string{"rating"})
		return false
	case errors.Is(err, directory.ErrSpecialistNotFound), err == nil && rec == nil:
		utils.JSONError(c, http.StatusNotFound, "Specialist not found", c.Param("id"))
		return false
	case err != nil:
		getLogger(c).Error("Directory update failed", zap.String("id", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update specialist", "")
		return false
	}
	return true
}
