package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/api"
)

type WaitlistHandler struct {
	system BookingSystemInterface
}

func NewWaitlistHandler(s BookingSystemInterface) *WaitlistHandler {
	return &WaitlistHandler{system: s}
}

// Promote godoc
// @Summary キャンセル待ちを昇格
// @Description 作成順に走査し、空席に収まるキャンセル待ちを確定します
// @Tags waitlist
// @Produce json
// @Success 200 {array} BookingResponse
// @Router /waitlist/promote [post]
func (h *WaitlistHandler) Promote(c echo.Context) error {
	promoted, err := h.system.PromoteWaitlist(c.Request().Context())
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(promoted))
}
