package password

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/passcheck-api/internal/handler"
	"github.com/jwalitptl/passcheck-api/internal/model"
	"github.com/jwalitptl/passcheck-api/internal/service/password"
	apperrors "github.com/jwalitptl/passcheck-api/pkg/errors"
)

type Handler struct {
	svc *password.Service
}

func NewHandler(svc *password.Service) *Handler {
	return &Handler{svc: svc}
}

// abortBadRequest answers a malformed or invalid request body. The error is
// also attached to the context so the logging middleware records it.
func abortBadRequest(c *gin.Context, err error) {
	appErr := apperrors.BadRequest("invalid request body", err)
	_ = c.Error(appErr)
	c.Abort()
	c.JSON(appErr.StatusCode(), handler.NewErrorResponse(appErr.Error()))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	passwords := r.Group("/passwords")
	{
		passwords.POST("/check", h.Check)
		passwords.POST("/breach", h.CheckBreach)
		passwords.POST("/enhance", h.Enhance)
		passwords.POST("/generate", h.Generate)
	}
}

// Check assesses a password. The password may be any string, including
// empty; breach lookup is opt-in via check_breach.
func (h *Handler) Check(c *gin.Context) {
	var req model.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	assessment := h.svc.Check(c.Request.Context(), req.Password, req.CheckBreach)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(assessment))
}

// CheckBreach runs only the breach lookup, for callers that scored the
// password earlier on the fast path.
func (h *Handler) CheckBreach(c *gin.Context) {
	var req model.BreachCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	result := h.svc.CheckBreach(c.Request.Context(), req.Password)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Enhance(c *gin.Context) {
	var req model.EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	enhanced, assessment := h.svc.Enhance(c.Request.Context(), req.Password)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.EnhanceResponse{
		Password:   enhanced,
		Assessment: assessment,
	}))
}

// Generate accepts an optional body; an absent body produces a password of
// the default length.
func (h *Handler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortBadRequest(c, err)
		return
	}

	pw, assessment := h.svc.Generate(req.Length)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.GenerateResponse{
		Password:   pw,
		Length:     len([]rune(pw)),
		Assessment: assessment,
	}))
}
