package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/request"
	"github.com/tal3a-app/tal3a-api/internal/api/handler/v1/response"
	"github.com/tal3a-app/tal3a-api/internal/config"
	"github.com/tal3a-app/tal3a-api/internal/pkg/jwthelper"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	conf *config.APIConfig
}

func NewAuthHandler(conf *config.APIConfig) *AuthHandler {
	return &AuthHandler{
		conf: conf,
	}
}

// HandleMintToken godoc
// @Summary      Mint a development token
// @Description  Issues a JWT for the given principal. Disabled in production, where tokens come from the identity gateway.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body  request.MintTokenRequest  true  "Principal to mint a token for"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /auth/token [post]
func (h *AuthHandler) HandleMintToken(ctx *gin.Context) {
	if h.conf.Environment == "production" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("token minting is disabled in production")))
		return
	}

	var req request.MintTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	token, err := jwthelper.GenerateToken(h.conf.JWTSigningKey, req.Principal, tokenTTL)
	if err != nil {
		err = fmt.Errorf("HandleMintToken -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
