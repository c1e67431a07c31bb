package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/request"
	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/response"
	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/service"
)

type ReviewService interface {
	CreateReview(ctx context.Context, principal string, review domain.Review) (domain.Review, error)
	UpdateReview(ctx context.Context, principal string, id uint64, update domain.ReviewUpdate) (domain.Review, error)
	DeleteReview(ctx context.Context, principal string, id uint64) error
	GetReview(ctx context.Context, id uint64) (domain.Review, error)
	GetTal3aReviews(ctx context.Context, tal3aID uint64) ([]domain.Review, error)
	GetMyReviews(ctx context.Context, principal string) ([]domain.Review, error)
	MarkHelpful(ctx context.Context, id uint64) error
	ReportReview(ctx context.Context, id uint64) error
}

type ReviewHandler struct {
	svc ReviewService
}

func NewReviewHandler(svc ReviewService) *ReviewHandler {
	return &ReviewHandler{
		svc: svc,
	}
}

// HandleCreateReview godoc
// @Summary      Review a Tal3a
// @Description  Creates a review for a completed Tal3a the caller participated in. One review per participant.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        tal3aID  path      int                          true  "Tal3a ID"
// @Param        input    body      request.CreateReviewRequest  true  "Review details"
// @Success      201      {object}  domain.Review
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID}/reviews [post]
// @Security     BearerAuth
func (h *ReviewHandler) HandleCreateReview(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tal3aID, respErr := parseIDParam(ctx, "tal3aID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	review := domain.Review{
		Tal3aID:            tal3aID,
		Rating:             req.Rating,
		Comment:            req.Comment,
		OrganizationRating: req.OrganizationRating,
		VenueRating:        req.VenueRating,
		ValueRating:        req.ValueRating,
	}

	created, err := h.svc.CreateReview(ctx.Request.Context(), principal, review)
	if err != nil {
		renderReviewErr(ctx, "HandleCreateReview", tal3aID, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetTal3aReviews godoc
// @Summary      Get a Tal3a's reviews
// @Description  Lists the Tal3a's reviews, newest first
// @Tags         reviews
// @Produce      json
// @Param        tal3aID  path      int  true  "Tal3a ID"
// @Success      200      {array}   domain.Review
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID}/reviews [get]
func (h *ReviewHandler) HandleGetTal3aReviews(ctx *gin.Context) {
	tal3aID, respErr := parseIDParam(ctx, "tal3aID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reviews, err := h.svc.GetTal3aReviews(ctx.Request.Context(), tal3aID)
	if err != nil {
		if errors.Is(err, service.ErrTal3aNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("tal3a", "ID", tal3aID))
			return
		}

		err = fmt.Errorf("HandleGetTal3aReviews -> h.svc.GetTal3aReviews -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

// HandleGetMyReviews godoc
// @Summary      Get the caller's reviews
// @Tags         reviews
// @Produce      json
// @Success      200  {array}   domain.Review
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reviews/mine [get]
// @Security     BearerAuth
func (h *ReviewHandler) HandleGetMyReviews(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reviews, err := h.svc.GetMyReviews(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("HandleGetMyReviews -> h.svc.GetMyReviews -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

// HandleUpdateReview godoc
// @Summary      Update a review
// @Description  Updates the caller's own review. The Tal3a's average rating is recomputed.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        reviewID  path      int                          true  "Review ID"
// @Param        input     body      request.UpdateReviewRequest  true  "Fields to update"
// @Success      200       {object}  domain.Review
// @Failure      400       {object}  response.Err
// @Failure      401       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /reviews/{reviewID} [put]
// @Security     BearerAuth
func (h *ReviewHandler) HandleUpdateReview(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := parseIDParam(ctx, "reviewID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	update := domain.ReviewUpdate{
		Rating:             req.Rating,
		Comment:            req.Comment,
		OrganizationRating: req.OrganizationRating,
		VenueRating:        req.VenueRating,
		ValueRating:        req.ValueRating,
	}

	updated, err := h.svc.UpdateReview(ctx.Request.Context(), principal, id, update)
	if err != nil {
		renderReviewErr(ctx, "HandleUpdateReview", id, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteReview godoc
// @Summary      Delete a review
// @Description  Deletes the caller's own review and recomputes the Tal3a's average rating
// @Tags         reviews
// @Produce      json
// @Param        reviewID  path  int  true  "Review ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reviews/{reviewID} [delete]
// @Security     BearerAuth
func (h *ReviewHandler) HandleDeleteReview(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := parseIDParam(ctx, "reviewID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteReview(ctx.Request.Context(), principal, id); err != nil {
		renderReviewErr(ctx, "HandleDeleteReview", id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// HandleMarkHelpful godoc
// @Summary      Mark a review as helpful
// @Tags         reviews
// @Produce      json
// @Param        reviewID  path  int  true  "Review ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reviews/{reviewID}/helpful [post]
// @Security     BearerAuth
func (h *ReviewHandler) HandleMarkHelpful(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "reviewID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.MarkHelpful(ctx.Request.Context(), id); err != nil {
		renderReviewErr(ctx, "HandleMarkHelpful", id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Review marked as helpful"})
}

// HandleReportReview godoc
// @Summary      Report a review
// @Tags         reviews
// @Produce      json
// @Param        reviewID  path  int  true  "Review ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /reviews/{reviewID}/report [post]
// @Security     BearerAuth
func (h *ReviewHandler) HandleReportReview(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "reviewID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.ReportReview(ctx.Request.Context(), id); err != nil {
		renderReviewErr(ctx, "HandleReportReview", id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Review reported"})
}

func renderReviewErr(ctx *gin.Context, handler string, id uint64, err error) {
	var ve service.ValidationError

	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		response.RenderErr(ctx, response.ErrNotFound("review", "ID", id))
	case errors.Is(err, service.ErrTal3aNotFound):
		response.RenderErr(ctx, response.ErrNotFound("tal3a", "ID", id))
	case errors.Is(err, service.ErrDuplicateReview):
		response.RenderErr(ctx, response.ErrConflict(fmt.Errorf("you have already reviewed this Tal3a")))
	case errors.Is(err, service.ErrReviewNotAllowed),
		errors.Is(err, service.ErrNotReviewer):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.As(err, &ve):
		response.RenderErr(ctx, response.ErrBadRequest(ve))
	default:
		err = fmt.Errorf("%v -> %w", handler, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
