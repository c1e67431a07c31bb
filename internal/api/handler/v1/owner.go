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

type OwnerService interface {
	AddOwner(ctx context.Context, actor, principal, name string, role domain.OwnerRole, permissions []domain.Permission) (domain.Owner, error)
	RemoveOwner(ctx context.Context, actor, principal string) error
	UpdatePermissions(ctx context.Context, actor, principal string, permissions []domain.Permission) (domain.Owner, error)
	GetOwner(ctx context.Context, principal string) (domain.Owner, error)
	ListOwners(ctx context.Context, actor string) ([]domain.Owner, error)
}

type OwnerHandler struct {
	svc OwnerService
}

func NewOwnerHandler(svc OwnerService) *OwnerHandler {
	return &OwnerHandler{
		svc: svc,
	}
}

// HandleListOwners godoc
// @Summary      List platform owners
// @Description  Lists all owners. The caller must be an owner.
// @Tags         owners
// @Produce      json
// @Success      200  {array}   domain.Owner
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/owners [get]
// @Security     BearerAuth
func (h *OwnerHandler) HandleListOwners(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	owners, err := h.svc.ListOwners(ctx.Request.Context(), principal)
	if err != nil {
		renderOwnerErr(ctx, "HandleListOwners", "", err)
		return
	}

	ctx.JSON(http.StatusOK, owners)
}

// HandleGetMe godoc
// @Summary      Get the caller's owner record
// @Tags         owners
// @Produce      json
// @Success      200  {object}  domain.Owner
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/owners/me [get]
// @Security     BearerAuth
func (h *OwnerHandler) HandleGetMe(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	owner, err := h.svc.GetOwner(ctx.Request.Context(), principal)
	if err != nil {
		renderOwnerErr(ctx, "HandleGetMe", principal, err)
		return
	}

	ctx.JSON(http.StatusOK, owner)
}

// HandleAddOwner godoc
// @Summary      Add an owner
// @Description  Grants a role directly to a principal. Requires the ManageOwners permission. Only super admins can grant SuperAdmin.
// @Tags         owners
// @Accept       json
// @Produce      json
// @Param        input  body      request.AddOwnerRequest  true  "Owner details"
// @Success      201    {object}  domain.Owner
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /admin/owners [post]
// @Security     BearerAuth
func (h *OwnerHandler) HandleAddOwner(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddOwnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	permissions := make([]domain.Permission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		permissions = append(permissions, domain.Permission(p))
	}

	created, err := h.svc.AddOwner(ctx.Request.Context(), principal, req.Principal, req.Name, domain.OwnerRole(req.Role), permissions)
	if err != nil {
		renderOwnerErr(ctx, "HandleAddOwner", req.Principal, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleRemoveOwner godoc
// @Summary      Remove an owner
// @Description  Requires the ManageOwners permission. The bootstrap super admin, the caller themselves and the last super admin cannot be removed.
// @Tags         owners
// @Produce      json
// @Param        principal  path  string  true  "Owner principal"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/owners/{principal} [delete]
// @Security     BearerAuth
func (h *OwnerHandler) HandleRemoveOwner(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	target := ctx.Param("principal")

	if err := h.svc.RemoveOwner(ctx.Request.Context(), principal, target); err != nil {
		renderOwnerErr(ctx, "HandleRemoveOwner", target, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Owner removed successfully"})
}

// HandleUpdatePermissions godoc
// @Summary      Update an owner's permissions
// @Description  Requires the ManageOwners permission. Permissions outside the owner's role are rejected.
// @Tags         owners
// @Accept       json
// @Produce      json
// @Param        principal  path      string                                 true  "Owner principal"
// @Param        input      body      request.UpdateOwnerPermissionsRequest  true  "New permission set"
// @Success      200        {object}  domain.Owner
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /admin/owners/{principal}/permissions [put]
// @Security     BearerAuth
func (h *OwnerHandler) HandleUpdatePermissions(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	target := ctx.Param("principal")

	var req request.UpdateOwnerPermissionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	permissions := make([]domain.Permission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		permissions = append(permissions, domain.Permission(p))
	}

	updated, err := h.svc.UpdatePermissions(ctx.Request.Context(), principal, target, permissions)
	if err != nil {
		renderOwnerErr(ctx, "HandleUpdatePermissions", target, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func renderOwnerErr(ctx *gin.Context, handler, key string, err error) {
	var ve service.ValidationError

	switch {
	case errors.Is(err, service.ErrOwnerNotFound):
		response.RenderErr(ctx, response.ErrNotFound("owner", "principal", key))
	case errors.Is(err, service.ErrOwnerExists):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrCannotRemoveSelf),
		errors.Is(err, service.ErrCannotEditSelf),
		errors.Is(err, service.ErrCannotRemoveBootstrap),
		errors.Is(err, service.ErrCannotEditBootstrap),
		errors.Is(err, service.ErrLastSuperAdmin):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.As(err, &ve):
		response.RenderErr(ctx, response.ErrBadRequest(ve))
	default:
		err = fmt.Errorf("%v -> %w", handler, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
