package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/request"
	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/response"
	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/service"
)

type GroupAdminService interface {
	AddGroupAdmin(ctx context.Context, actor string, groupID uint64, principal, name string, permissions []domain.GroupPermission) (domain.GroupAdmin, error)
	RemoveGroupAdmin(ctx context.Context, actor string, groupID uint64, principal string) error
	UpdateGroupPermissions(ctx context.Context, actor string, groupID uint64, principal string, permissions []domain.GroupPermission) (domain.GroupAdmin, error)
	ListGroupAdmins(ctx context.Context, actor string, groupID uint64) ([]domain.GroupAdmin, error)
	GetMyGroupRoles(ctx context.Context, principal string) ([]domain.GroupAdmin, error)
}

type GroupAdminHandler struct {
	svc GroupAdminService
}

func NewGroupAdminHandler(svc GroupAdminService) *GroupAdminHandler {
	return &GroupAdminHandler{
		svc: svc,
	}
}

// HandleListGroupAdmins godoc
// @Summary      List a group's admins
// @Description  Requires the ManageGroups permission or the ViewGroupAnalytics group permission.
// @Tags         groups
// @Produce      json
// @Param        groupID  path      int  true  "Group ID"
// @Success      200      {array}   domain.GroupAdmin
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /groups/{groupID}/admins [get]
// @Security     BearerAuth
func (h *GroupAdminHandler) HandleListGroupAdmins(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	groupID, err := parseGroupID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	admins, err := h.svc.ListGroupAdmins(ctx.Request.Context(), principal, groupID)
	if err != nil {
		renderGroupAdminErr(ctx, "HandleListGroupAdmins", "", err)
		return
	}

	ctx.JSON(http.StatusOK, admins)
}

// HandleGetMyGroupRoles godoc
// @Summary      List the caller's group admin roles
// @Tags         groups
// @Produce      json
// @Success      200  {array}   domain.GroupAdmin
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /groups/roles/mine [get]
// @Security     BearerAuth
func (h *GroupAdminHandler) HandleGetMyGroupRoles(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	roles, err := h.svc.GetMyGroupRoles(ctx.Request.Context(), principal)
	if err != nil {
		renderGroupAdminErr(ctx, "HandleGetMyGroupRoles", principal, err)
		return
	}

	ctx.JSON(http.StatusOK, roles)
}

// HandleAddGroupAdmin godoc
// @Summary      Add a group admin
// @Description  Requires the ManageGroups permission or the ManageMembers group permission.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID  path      int                           true  "Group ID"
// @Param        input    body      request.AddGroupAdminRequest  true  "Admin details"
// @Success      201      {object}  domain.GroupAdmin
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /groups/{groupID}/admins [post]
// @Security     BearerAuth
func (h *GroupAdminHandler) HandleAddGroupAdmin(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	groupID, err := parseGroupID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.AddGroupAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.AddGroupAdmin(ctx.Request.Context(), principal, groupID, req.Principal, req.Name, toGroupPermissions(req.Permissions))
	if err != nil {
		renderGroupAdminErr(ctx, "HandleAddGroupAdmin", req.Principal, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleRemoveGroupAdmin godoc
// @Summary      Remove a group admin
// @Description  Requires the ManageGroups permission or the ManageMembers group permission.
// @Tags         groups
// @Produce      json
// @Param        groupID    path  int     true  "Group ID"
// @Param        principal  path  string  true  "Admin principal"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /groups/{groupID}/admins/{principal} [delete]
// @Security     BearerAuth
func (h *GroupAdminHandler) HandleRemoveGroupAdmin(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	groupID, err := parseGroupID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	target := ctx.Param("principal")

	if err := h.svc.RemoveGroupAdmin(ctx.Request.Context(), principal, groupID, target); err != nil {
		renderGroupAdminErr(ctx, "HandleRemoveGroupAdmin", target, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Group admin removed successfully"})
}

// HandleUpdateGroupPermissions godoc
// @Summary      Update a group admin's permissions
// @Description  Requires the ManageGroups permission or the ManageMembers group permission.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID    path      int                                    true  "Group ID"
// @Param        principal  path      string                                 true  "Admin principal"
// @Param        input      body      request.UpdateGroupPermissionsRequest  true  "New permission set"
// @Success      200        {object}  domain.GroupAdmin
// @Failure      400        {object}  response.Err
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /groups/{groupID}/admins/{principal}/permissions [put]
// @Security     BearerAuth
func (h *GroupAdminHandler) HandleUpdateGroupPermissions(ctx *gin.Context) {
	principal, respErr := getPrincipal(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	groupID, err := parseGroupID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	target := ctx.Param("principal")

	var req request.UpdateGroupPermissionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateGroupPermissions(ctx.Request.Context(), principal, groupID, target, toGroupPermissions(req.Permissions))
	if err != nil {
		renderGroupAdminErr(ctx, "HandleUpdateGroupPermissions", target, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func parseGroupID(ctx *gin.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("groupID"), 10, 64)
}

func toGroupPermissions(raw []string) []domain.GroupPermission {
	permissions := make([]domain.GroupPermission, 0, len(raw))
	for _, p := range raw {
		permissions = append(permissions, domain.GroupPermission(p))
	}

	return permissions
}

func renderGroupAdminErr(ctx *gin.Context, handler, key string, err error) {
	var ve service.ValidationError

	switch {
	case errors.Is(err, service.ErrGroupAdminNotFound):
		response.RenderErr(ctx, response.ErrNotFound("group admin", "principal", key))
	case errors.Is(err, service.ErrGroupAdminExists):
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
