package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/api"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/seat"
)

type SeatHandler struct {
	system BookingSystemInterface
}

func NewSeatHandler(s BookingSystemInterface) *SeatHandler {
	return &SeatHandler{system: s}
}

type SeatResponse struct {
	ID           int    `json:"seat_id" example:"1"`
	Availability string `json:"availability" example:"Available"`
	BookingID    *int64 `json:"booking_id,omitempty" example:"3"`
}

func toSeatResponse(st seat.State) SeatResponse {
	return SeatResponse{ID: st.ID, Availability: string(st.Availability), BookingID: st.BookingID}
}

// SeatMap godoc
// @Summary 座席マップを取得
// @Description 座席番号順に Available / Booked を返します
// @Tags seats
// @Produce json
// @Success 200 {array} SeatResponse
// @Router /seats [get]
func (h *SeatHandler) SeatMap(c echo.Context) error {
	states, err := h.system.SeatMap(c.Request().Context())
	if err != nil {
		return api.NewHTTPError(err)
	}
	resp := make([]SeatResponse, len(states))
	for i, st := range states {
		resp[i] = toSeatResponse(st)
	}
	return c.JSON(http.StatusOK, resp)
}

// CountAvailable godoc
// @Summary 空席数を取得
// @Tags seats
// @Produce json
// @Success 200 {object} map[string]int
// @Router /seats/available/count [get]
func (h *SeatHandler) CountAvailable(c echo.Context) error {
	count, err := h.system.AvailableCount(c.Request().Context())
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]int{
		"available_count": count,
		"total_seats":     h.system.TotalSeats(),
	})
}
