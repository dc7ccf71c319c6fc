package api

import (
	"errors"
	"net/http"
	"time"

	models "RegimeGate/internal/domain/models"
	regsvc "RegimeGate/internal/services/regime"
	"RegimeGate/internal/usecase"
	xhttp "RegimeGate/pkg/http"
	xlogger "RegimeGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RegimeEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type RegimeEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.RegimeUseCase
}

func NewRegimeEchoHandler(logger *xlogger.Logger, uc *usecase.RegimeUseCase) *RegimeEchoHandler {
	return &RegimeEchoHandler{logger: logger, uc: uc}
}

func (h *RegimeEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/regime/classify", h.Classify)
	g.GET("/regime/decide", h.Decide)
	g.GET("/health", h.Health)
}

func (h *RegimeEchoHandler) Classify(c echo.Context) error {
	req := &models.ClassifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Classify(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, regsvc.ErrInvalidConfig) || errors.Is(err, regsvc.ErrInvalidSeries) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
		}
		h.logger.Error("classify usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

func (h *RegimeEchoHandler) Decide(c echo.Context) error {
	req := &models.DecideRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	return xhttp.SuccessResponse(c, h.uc.Decide(req.Label))
}

func (h *RegimeEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
