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

type ParticipantService interface {
	JoinTal3a(ctx context.Context, principal string, tal3aID uint64, notes *string) (domain.Tal3a, bool, error)
	LeaveTal3a(ctx context.Context, principal string, tal3aID uint64) (domain.Tal3a, error)
	GetParticipants(ctx context.Context, tal3aID uint64) ([]domain.Participant, error)
	GetWaitlist(ctx context.Context, tal3aID uint64) ([]string, error)
	UpdateParticipantStatus(ctx context.Context, principal string, tal3aID uint64, userID string, status *domain.ParticipantStatus, payment *domain.PaymentStatus) (domain.Tal3a, error)
}

type ParticipantHandler struct {
	svc ParticipantService
}

func NewParticipantHandler(svc ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		svc: svc,
	}
}

// HandleJoinTal3a godoc
// @Summary      Join a Tal3a
// @Description  Joins the authenticated user to the Tal3a, or adds them to the waitlist if it is full
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        tal3aID  path      int                       true   "Tal3a ID"
// @Param        input    body      request.JoinTal3aRequest  false  "Optional notes for the organizer"
// @Success      200      {object}  domain.Tal3a
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID}/join [post]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleJoinTal3a(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := parseIDParam(ctx, "tal3aID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.JoinTal3aRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		if err := req.Validate(); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	tal3a, waitlisted, err := h.svc.JoinTal3a(ctx.Request.Context(), principal, id, req.Notes)
	if err != nil {
		renderMembershipErr(ctx, "HandleJoinTal3a", id, err)
		return
	}

	message := "Joined successfully"
	if waitlisted {
		message = "Tal3a is full, added to the waitlist"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":    message,
		"waitlisted": waitlisted,
		"tal3a":      tal3a,
	})
}

// HandleLeaveTal3a godoc
// @Summary      Leave a Tal3a
// @Description  Removes the authenticated user from the Tal3a or its waitlist. A freed spot goes to the first waitlisted user.
// @Tags         participants
// @Produce      json
// @Param        tal3aID  path      int  true  "Tal3a ID"
// @Success      200      {object}  domain.Tal3a
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID}/leave [post]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleLeaveTal3a(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := parseIDParam(ctx, "tal3aID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tal3a, err := h.svc.LeaveTal3a(ctx.Request.Context(), principal, id)
	if err != nil {
		renderMembershipErr(ctx, "HandleLeaveTal3a", id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Left successfully",
		"tal3a":   tal3a,
	})
}

// HandleGetParticipants godoc
// @Summary      Get a Tal3a's participants
// @Tags         participants
// @Produce      json
// @Param        tal3aID  path      int  true  "Tal3a ID"
// @Success      200      {array}   domain.Participant
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID}/participants [get]
func (h *ParticipantHandler) HandleGetParticipants(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "tal3aID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	participants, err := h.svc.GetParticipants(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTal3aNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("tal3a", "ID", id))
			return
		}

		err = fmt.Errorf("HandleGetParticipants -> h.svc.GetParticipants -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, participants)
}

// HandleGetWaitlist godoc
// @Summary      Get a Tal3a's waitlist
// @Description  Returns the waitlisted principals in promotion order
// @Tags         participants
// @Produce      json
// @Param        tal3aID  path      int  true  "Tal3a ID"
// @Success      200      {array}   string
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID}/waitlist [get]
func (h *ParticipantHandler) HandleGetWaitlist(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "tal3aID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	waitlist, err := h.svc.GetWaitlist(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTal3aNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("tal3a", "ID", id))
			return
		}

		err = fmt.Errorf("HandleGetWaitlist -> h.svc.GetWaitlist -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, waitlist)
}

// HandleUpdateParticipantStatus godoc
// @Summary      Update a participant's status
// @Description  Lets the organizer change a participant's attendance or payment status
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        tal3aID  path      int                                     true  "Tal3a ID"
// @Param        input    body      request.UpdateParticipantStatusRequest  true  "Participant and new status"
// @Success      200      {object}  domain.Tal3a
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID}/participants/status [put]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleUpdateParticipantStatus(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := parseIDParam(ctx, "tal3aID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateParticipantStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var status *domain.ParticipantStatus
	if req.Status != nil {
		s := domain.ParticipantStatus(*req.Status)
		status = &s
	}

	var payment *domain.PaymentStatus
	if req.PaymentStatus != nil {
		p := domain.PaymentStatus(*req.PaymentStatus)
		payment = &p
	}

	tal3a, err := h.svc.UpdateParticipantStatus(ctx.Request.Context(), principal, id, req.UserID, status, payment)
	if err != nil {
		renderMembershipErr(ctx, "HandleUpdateParticipantStatus", id, err)
		return
	}

	ctx.JSON(http.StatusOK, tal3a)
}

func renderMembershipErr(ctx *gin.Context, handler string, id uint64, err error) {
	var ve service.ValidationError

	switch {
	case errors.Is(err, service.ErrTal3aNotFound):
		response.RenderErr(ctx, response.ErrNotFound("tal3a", "ID", id))
	case errors.Is(err, service.ErrNotOrganizer):
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotOrganizer))
	case errors.Is(err, service.ErrOrganizerCannotJoin),
		errors.Is(err, service.ErrOrganizerCannotLeave):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrAlreadyWaitlisted):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrTal3aNotJoinable),
		errors.Is(err, service.ErrTal3aStarted),
		errors.Is(err, service.ErrNotParticipant):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.As(err, &ve):
		response.RenderErr(ctx, response.ErrBadRequest(ve))
	default:
		err = fmt.Errorf("%v -> %w", handler, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
