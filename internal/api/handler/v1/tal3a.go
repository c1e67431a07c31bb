package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/request"
	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/response"
	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/service"
)

type Tal3aService interface {
	CreateTal3a(ctx context.Context, principal string, tal3a domain.Tal3a) (domain.Tal3a, error)
	GetTal3a(ctx context.Context, id uint64) (domain.Tal3a, error)
	ListTal3as(ctx context.Context, filter *domain.Tal3aFilter) ([]domain.Tal3a, error)
	UpdateTal3a(ctx context.Context, principal string, id uint64, update domain.Tal3aUpdate) (domain.Tal3a, error)
	UpdateTal3aStatus(ctx context.Context, principal string, id uint64, status domain.Tal3aStatus) error
	DeleteTal3a(ctx context.Context, principal string, id uint64) error
	GetOrganizedTal3as(ctx context.Context, principal string) ([]domain.Tal3a, error)
	GetJoinedTal3as(ctx context.Context, principal string) ([]domain.Tal3a, error)
}

type Tal3aHandler struct {
	svc Tal3aService
}

func NewTal3aHandler(svc Tal3aService) *Tal3aHandler {
	return &Tal3aHandler{
		svc: svc,
	}
}

// HandleCreateTal3a godoc
// @Summary      Create a Tal3a
// @Description  Creates a new sports outing organized by the authenticated user
// @Tags         tal3as
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateTal3aRequest  true  "Tal3a details"
// @Success      201    {object}  domain.Tal3a
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /tal3as [post]
// @Security     BearerAuth
func (h *Tal3aHandler) HandleCreateTal3a(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTal3aRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	tal3a := domain.Tal3a{
		Title:       req.Title,
		Description: req.Description,
		Sport:       domain.Sport(req.Sport),
		GroupID:     req.GroupID,
		Location: domain.Location{
			Latitude:      req.Location.Latitude,
			Longitude:     req.Location.Longitude,
			Address:       req.Location.Address,
			CityID:        req.Location.CityID,
			GovernorateID: req.Location.GovernorateID,
			VenueName:     req.Location.VenueName,
			VenueType:     req.Location.VenueType,
		},
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		MaxParticipants:  req.MaxParticipants,
		Difficulty:       domain.DifficultyLevel(req.Difficulty),
		EntryFee:         req.EntryFee,
		Currency:         req.Currency,
		Tags:             req.Tags,
		ContactInfo:      req.ContactInfo,
		EmergencyContact: req.EmergencyContact,
	}

	created, err := h.svc.CreateTal3a(ctx.Request.Context(), principal, tal3a)
	if err != nil {
		var ve service.ValidationError
		if errors.As(err, &ve) {
			response.RenderErr(ctx, response.ErrBadRequest(ve))
			return
		}

		err = fmt.Errorf("HandleCreateTal3a -> h.svc.CreateTal3a -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetTal3a godoc
// @Summary      Get a Tal3a
// @Description  Retrieves a single Tal3a with its participants and waitlist
// @Tags         tal3as
// @Produce      json
// @Param        tal3aID  path      int  true  "Tal3a ID"
// @Success      200      {object}  domain.Tal3a
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID} [get]
func (h *Tal3aHandler) HandleGetTal3a(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "tal3aID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tal3a, err := h.svc.GetTal3a(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTal3aNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("tal3a", "ID", id))
			return
		}

		err = fmt.Errorf("HandleGetTal3a -> h.svc.GetTal3a -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tal3a)
}

// HandleListTal3as godoc
// @Summary      List Tal3as
// @Description  Lists Tal3as, optionally filtered by sport, city, governorate, status, difficulty, date range, fee, organizer or group
// @Tags         tal3as
// @Produce      json
// @Param        sport           query  string  false  "Sport"
// @Param        city_id         query  int     false  "City ID"
// @Param        governorate_id  query  int     false  "Governorate ID"
// @Param        status          query  string  false  "Status"
// @Param        difficulty      query  string  false  "Difficulty level"
// @Param        start_date      query  string  false  "Earliest start time (RFC3339)"
// @Param        end_date        query  string  false  "Latest start time (RFC3339)"
// @Param        max_fee         query  int     false  "Maximum entry fee in piasters"
// @Param        organizer_id    query  string  false  "Organizer principal"
// @Param        group_id        query  int     false  "Group ID"
// @Success      200  {array}   domain.Tal3a
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tal3as [get]
func (h *Tal3aHandler) HandleListTal3as(ctx *gin.Context) {
	filter, respErr := parseTal3aFilter(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tal3as, err := h.svc.ListTal3as(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("HandleListTal3as -> h.svc.ListTal3as -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tal3as)
}

// HandleUpdateTal3a godoc
// @Summary      Update a Tal3a
// @Description  Updates fields of a Tal3a. Only the organizer can update it.
// @Tags         tal3as
// @Accept       json
// @Produce      json
// @Param        tal3aID  path      int                         true  "Tal3a ID"
// @Param        input    body      request.UpdateTal3aRequest  true  "Fields to update"
// @Success      200      {object}  domain.Tal3a
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tal3as/{tal3aID} [put]
// @Security     BearerAuth
func (h *Tal3aHandler) HandleUpdateTal3a(ctx *gin.Context) {
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

	var req request.UpdateTal3aRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	update := domain.Tal3aUpdate{
		Title:            req.Title,
		Description:      req.Description,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		MaxParticipants:  req.MaxParticipants,
		EntryFee:         req.EntryFee,
		Currency:         req.Currency,
		Tags:             req.Tags,
		ContactInfo:      req.ContactInfo,
		EmergencyContact: req.EmergencyContact,
	}
	if req.Location != nil {
		update.Location = &domain.Location{
			Latitude:      req.Location.Latitude,
			Longitude:     req.Location.Longitude,
			Address:       req.Location.Address,
			CityID:        req.Location.CityID,
			GovernorateID: req.Location.GovernorateID,
			VenueName:     req.Location.VenueName,
			VenueType:     req.Location.VenueType,
		}
	}
	if req.Difficulty != nil {
		difficulty := domain.DifficultyLevel(*req.Difficulty)
		update.Difficulty = &difficulty
	}

	updated, err := h.svc.UpdateTal3a(ctx.Request.Context(), principal, id, update)
	if err != nil {
		renderTal3aErr(ctx, "HandleUpdateTal3a", id, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleUpdateTal3aStatus godoc
// @Summary      Update a Tal3a's status
// @Description  Moves the Tal3a to a new lifecycle status. Only the organizer can change it.
// @Tags         tal3as
// @Accept       json
// @Produce      json
// @Param        tal3aID  path      int                               true  "Tal3a ID"
// @Param        input    body      request.UpdateTal3aStatusRequest  true  "New status"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tal3as/{tal3aID}/status [put]
// @Security     BearerAuth
func (h *Tal3aHandler) HandleUpdateTal3aStatus(ctx *gin.Context) {
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

	var req request.UpdateTal3aStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.UpdateTal3aStatus(ctx.Request.Context(), principal, id, domain.Tal3aStatus(req.Status))
	if err != nil {
		renderTal3aErr(ctx, "HandleUpdateTal3aStatus", id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

// HandleDeleteTal3a godoc
// @Summary      Delete a Tal3a
// @Description  Deletes a Tal3a along with its participants, waitlist and reviews. Only the organizer can delete it.
// @Tags         tal3as
// @Produce      json
// @Param        tal3aID  path  int  true  "Tal3a ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tal3as/{tal3aID} [delete]
// @Security     BearerAuth
func (h *Tal3aHandler) HandleDeleteTal3a(ctx *gin.Context) {
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

	if err := h.svc.DeleteTal3a(ctx.Request.Context(), principal, id); err != nil {
		renderTal3aErr(ctx, "HandleDeleteTal3a", id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Tal3a deleted successfully"})
}

// HandleGetOrganizedTal3as godoc
// @Summary      Get Tal3as organized by the caller
// @Tags         tal3as
// @Produce      json
// @Success      200  {array}   domain.Tal3a
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tal3as/organized [get]
// @Security     BearerAuth
func (h *Tal3aHandler) HandleGetOrganizedTal3as(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tal3as, err := h.svc.GetOrganizedTal3as(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("HandleGetOrganizedTal3as -> h.svc.GetOrganizedTal3as -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tal3as)
}

// HandleGetJoinedTal3as godoc
// @Summary      Get Tal3as the caller has joined
// @Tags         tal3as
// @Produce      json
// @Success      200  {array}   domain.Tal3a
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tal3as/joined [get]
// @Security     BearerAuth
func (h *Tal3aHandler) HandleGetJoinedTal3as(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tal3as, err := h.svc.GetJoinedTal3as(ctx.Request.Context(), principal)
	if err != nil {
		err = fmt.Errorf("HandleGetJoinedTal3as -> h.svc.GetJoinedTal3as -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tal3as)
}

func renderTal3aErr(ctx *gin.Context, handler string, id uint64, err error) {
	var ve service.ValidationError

	switch {
	case errors.Is(err, service.ErrTal3aNotFound):
		response.RenderErr(ctx, response.ErrNotFound("tal3a", "ID", id))
	case errors.Is(err, service.ErrNotOrganizer):
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotOrganizer))
	case errors.As(err, &ve):
		response.RenderErr(ctx, response.ErrBadRequest(ve))
	default:
		err = fmt.Errorf("%v -> %w", handler, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func parseTal3aFilter(ctx *gin.Context) (*domain.Tal3aFilter, *response.Err) {
	filter := &domain.Tal3aFilter{}

	if v := ctx.Query("sport"); v != "" {
		sport := domain.Sport(v)
		filter.Sport = &sport
	}
	if v := ctx.Query("status"); v != "" {
		status := domain.Tal3aStatus(v)
		filter.Status = &status
	}
	if v := ctx.Query("difficulty"); v != "" {
		difficulty := domain.DifficultyLevel(v)
		filter.Difficulty = &difficulty
	}
	if v := ctx.Query("organizer_id"); v != "" {
		filter.OrganizerID = &v
	}
	if v := ctx.Query("city_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return nil, response.ErrBadRequest(fmt.Errorf("invalid city_id: %v", v))
		}
		cityID := uint16(parsed)
		filter.CityID = &cityID
	}
	if v := ctx.Query("governorate_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return nil, response.ErrBadRequest(fmt.Errorf("invalid governorate_id: %v", v))
		}
		governorateID := uint8(parsed)
		filter.GovernorateID = &governorateID
	}
	if v := ctx.Query("max_fee"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, response.ErrBadRequest(fmt.Errorf("invalid max_fee: %v", v))
		}
		filter.MaxFee = &parsed
	}
	if v := ctx.Query("group_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, response.ErrBadRequest(fmt.Errorf("invalid group_id: %v", v))
		}
		filter.GroupID = &parsed
	}
	if v := ctx.Query("start_date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, response.ErrBadRequest(fmt.Errorf("invalid start_date: %v", v))
		}
		filter.StartDate = &parsed
	}
	if v := ctx.Query("end_date"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, response.ErrBadRequest(fmt.Errorf("invalid end_date: %v", v))
		}
		filter.EndDate = &parsed
	}

	return filter, nil
}
