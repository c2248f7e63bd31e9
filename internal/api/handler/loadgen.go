package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type LoadGenHandler struct {
	gen LoadGenerator
}

func NewLoadGenHandler(g LoadGenerator) *LoadGenHandler {
	return &LoadGenHandler{gen: g}
}

// Start godoc
// @Summary ランダム予約を開始
// @Description バックグラウンドでランダムな予約を実行します
// @Tags loadgen
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 409 {object} api.ErrorResponse "実行中"
// @Router /loadgen [post]
func (h *LoadGenHandler) Start(c echo.Context) error {
	if !h.gen.Trigger() {
		return echo.NewHTTPError(http.StatusConflict, "ランダム予約は実行中です")
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "started"})
}
