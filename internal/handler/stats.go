package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vacation-portal/internal/service"
)

type StatsHandler struct {
	Stats *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler {
	return &StatsHandler{Stats: s}
}

// Dashboard returns the four statistics aggregates in one document.
func (h *StatsHandler) Dashboard(c echo.Context) error {
	d, err := h.Stats.Dashboard(c.Request().Context())
	if err != nil {
		return fail(c, err, "Failed to load statistics")
	}
	return c.JSON(http.StatusOK, d)
}
