package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/response"
)

func getPrincipal(ctx *gin.Context) (string, *response.Err) {
	value, ok := ctx.Get("principal")
	if !ok {
		return "", response.ErrUnauthorized("principal not found in context")
	}

	principal, ok := value.(string)
	if !ok || principal == "" {
		return "", response.ErrUnauthorized("invalid principal in context")
	}

	return principal, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint64, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v: %v", name, ctx.Param(name)))
	}

	return id, nil
}
