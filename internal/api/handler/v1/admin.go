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

type AdminRequestService interface {
	SubmitRequest(ctx context.Context, principal, name, reason string) (domain.AdminRequest, error)
	GetMyRequest(ctx context.Context, principal string) (domain.AdminRequest, error)
	GetRequest(ctx context.Context, actor, id string) (domain.AdminRequest, error)
	ListRequests(ctx context.Context, actor string) ([]domain.AdminRequest, error)
	ListPendingRequests(ctx context.Context, actor string) ([]domain.AdminRequest, error)
	ApproveRequest(ctx context.Context, actor, id string, role domain.OwnerRole) (domain.AdminRequest, error)
	RejectRequest(ctx context.Context, actor, id string, reason *string) (domain.AdminRequest, error)
	DeleteRequest(ctx context.Context, actor, id string) error
	CancelRequest(ctx context.Context, principal string) error
}

type AdminHandler struct {
	svc AdminRequestService
}

func NewAdminHandler(svc AdminRequestService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

// HandleSubmitRequest godoc
// @Summary      Apply for admin access
// @Description  Submits an admin request for the authenticated user. One pending request per user.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.SubmitAdminRequest  true  "Applicant name and reason"
// @Success      201    {object}  domain.AdminRequest
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /admin/requests [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleSubmitRequest(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.SubmitRequest(ctx.Request.Context(), principal, req.Name, req.Reason)
	if err != nil {
		renderAdminErr(ctx, "HandleSubmitRequest", "", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetMyRequest godoc
// @Summary      Get the caller's admin request
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.AdminRequest
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/requests/mine [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleGetMyRequest(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	found, err := h.svc.GetMyRequest(ctx.Request.Context(), principal)
	if err != nil {
		renderAdminErr(ctx, "HandleGetMyRequest", principal, err)
		return
	}

	ctx.JSON(http.StatusOK, found)
}

// HandleCancelRequest godoc
// @Summary      Cancel the caller's pending admin request
// @Tags         admin
// @Produce      json
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/requests/mine [delete]
// @Security     BearerAuth
func (h *AdminHandler) HandleCancelRequest(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.CancelRequest(ctx.Request.Context(), principal); err != nil {
		renderAdminErr(ctx, "HandleCancelRequest", principal, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

// HandleListRequests godoc
// @Summary      List admin requests
// @Description  Lists all admin requests. Requires the ManageOwners permission. Pass pending=true for pending only.
// @Tags         admin
// @Produce      json
// @Param        pending  query     bool  false  "Only pending requests"
// @Success      200      {array}   domain.AdminRequest
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/requests [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListRequests(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var (
		found []domain.AdminRequest
		err   error
	)
	if ctx.Query("pending") == "true" {
		found, err = h.svc.ListPendingRequests(ctx.Request.Context(), principal)
	} else {
		found, err = h.svc.ListRequests(ctx.Request.Context(), principal)
	}
	if err != nil {
		renderAdminErr(ctx, "HandleListRequests", "", err)
		return
	}

	ctx.JSON(http.StatusOK, found)
}

// HandleGetRequest godoc
// @Summary      Get an admin request
// @Description  Requires the ManageOwners permission
// @Tags         admin
// @Produce      json
// @Param        requestID  path      string  true  "Request ID"
// @Success      200        {object}  domain.AdminRequest
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/requests/{requestID} [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleGetRequest(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id := ctx.Param("requestID")

	found, err := h.svc.GetRequest(ctx.Request.Context(), principal, id)
	if err != nil {
		renderAdminErr(ctx, "HandleGetRequest", id, err)
		return
	}

	ctx.JSON(http.StatusOK, found)
}

// HandleApproveRequest godoc
// @Summary      Approve an admin request
// @Description  Grants the requested role with its default permissions. Requires the ManageOwners permission.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        requestID  path      string                       true  "Request ID"
// @Param        input      body      request.ApproveAdminRequest  true  "Role to grant"
// @Success      200        {object}  domain.AdminRequest
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/requests/{requestID}/approve [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleApproveRequest(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id := ctx.Param("requestID")

	var req request.ApproveAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	approved, err := h.svc.ApproveRequest(ctx.Request.Context(), principal, id, domain.OwnerRole(req.Role))
	if err != nil {
		renderAdminErr(ctx, "HandleApproveRequest", id, err)
		return
	}

	ctx.JSON(http.StatusOK, approved)
}

// HandleRejectRequest godoc
// @Summary      Reject an admin request
// @Description  Requires the ManageOwners permission
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        requestID  path      string                      true   "Request ID"
// @Param        input      body      request.RejectAdminRequest  false  "Optional rejection reason"
// @Success      200        {object}  domain.AdminRequest
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/requests/{requestID}/reject [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleRejectRequest(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id := ctx.Param("requestID")

	var req request.RejectAdminRequest
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

	rejected, err := h.svc.RejectRequest(ctx.Request.Context(), principal, id, req.Reason)
	if err != nil {
		renderAdminErr(ctx, "HandleRejectRequest", id, err)
		return
	}

	ctx.JSON(http.StatusOK, rejected)
}

// HandleDeleteRequest godoc
// @Summary      Delete an admin request
// @Description  Removes a request so the requester can apply again. Super admins only.
// @Tags         admin
// @Produce      json
// @Param        requestID  path  string  true  "Request ID"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/requests/{requestID} [delete]
// @Security     BearerAuth
func (h *AdminHandler) HandleDeleteRequest(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id := ctx.Param("requestID")

	if err := h.svc.DeleteRequest(ctx.Request.Context(), principal, id); err != nil {
		renderAdminErr(ctx, "HandleDeleteRequest", id, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}

func renderAdminErr(ctx *gin.Context, handler, key string, err error) {
	var ve service.ValidationError

	switch {
	case errors.Is(err, service.ErrAdminRequestNotFound):
		response.RenderErr(ctx, response.ErrNotFound("admin request", "ID", key))
	case errors.Is(err, service.ErrOwnerNotFound):
		response.RenderErr(ctx, response.ErrNotFound("owner", "principal", key))
	case errors.Is(err, service.ErrAdminRequestExists),
		errors.Is(err, service.ErrAdminRequestProcessed),
		errors.Is(err, service.ErrOwnerExists):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrPermissionDenied):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.As(err, &ve):
		response.RenderErr(ctx, response.ErrBadRequest(ve))
	default:
		err = fmt.Errorf("%v -> %w", handler, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
