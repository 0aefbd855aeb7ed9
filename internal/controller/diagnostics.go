package controller

import (
	"net/http"

	"freelance-marketplace-api/internal/service"

	"github.com/labstack/echo"
	"github.com/labstack/gommon/log"
)

type diagnosticRoutesHandler struct {
	diagnosticService service.Diagnostics
}

func newDiagnosticRoutesHandler(outer *echo.Group, services *service.Services) *diagnosticRoutesHandler {
	h := &diagnosticRoutesHandler{services.Diagnostics}
	outer.GET("/ping", h.Ping)

	return h
}

func (h *diagnosticRoutesHandler) Ping(c echo.Context) error {
	if err := h.diagnosticService.Ping(c.Request().Context()); err != nil {
		log.Warnf("ping: %v", err)
		return c.JSON(http.StatusServiceUnavailable, errorResponse{"database is not reachable"})
	}

	return c.JSON(http.StatusOK, "ok")
}
