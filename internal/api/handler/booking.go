package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/api"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/application"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
)

type BookingHandler struct {
	system BookingSystemInterface
}

func NewBookingHandler(s BookingSystemInterface) *BookingHandler {
	return &BookingHandler{system: s}
}

type BookRequest struct {
	Requester string `json:"requester" validate:"required,requester" example:"Alice"`
	Seats     int    `json:"seats" validate:"required,min=1,max=10" example:"3"`
	SeatIDs   []int  `json:"seat_ids,omitempty" validate:"omitempty,dive,min=1" example:"4,5,6"`
}

type CancelRequest struct {
	Requester string `json:"requester" validate:"required,requester" example:"Alice"`
	Seats     int    `json:"seats" validate:"required,min=1" example:"3"`
}

type BookingResponse struct {
	ID        int64     `json:"id" example:"1"`
	Requester string    `json:"requester" example:"Alice"`
	Seats     int       `json:"seats" example:"3"`
	SeatIDs   []int     `json:"seat_ids,omitempty" example:"1,2,3"`
	Status    string    `json:"status" example:"CONFIRMED"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, Requester: b.Requester, Seats: b.SeatsBooked,
		SeatIDs: b.SeatIDs, Status: string(b.Status), CreatedAt: b.CreatedAt,
	}
}

func toBookingResponses(bookings []*booking.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return resp
}

// Book godoc
// @Summary 座席を予約
// @Description 空席があれば確定、足りなければキャンセル待ちとして記録します
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body BookRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "指定座席が予約済み"
// @Router /bookings [post]
func (h *BookingHandler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.system.Book(c.Request().Context(), application.BookInput{
		Requester: req.Requester, Seats: req.Seats, SeatIDs: req.SeatIDs,
	})
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約者の最も古い確定済み予約をキャンセルし、キャンセル待ちを昇格します
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CancelRequest true "キャンセル情報"
// @Success 200 {object} BookingResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /bookings/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	var req CancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.system.Cancel(c.Request().Context(), req.Requester, req.Seats)
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// History godoc
// @Summary 予約履歴を取得
// @Tags bookings
// @Produce json
// @Success 200 {array} BookingResponse
// @Router /bookings [get]
func (h *BookingHandler) History(c echo.Context) error {
	bookings, err := h.system.History(c.Request().Context())
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, toBookingResponses(bookings))
}

type StatsResponse struct {
	Confirmed  int `json:"confirmed"`
	Waitlisted int `json:"waitlisted"`
	Cancelled  int `json:"cancelled"`
	TotalSeats int `json:"total_seats"`
}

// Stats godoc
// @Summary 状態別の予約数を取得
// @Tags bookings
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /bookings/stats [get]
func (h *BookingHandler) Stats(c echo.Context) error {
	stats, err := h.system.Stats(c.Request().Context())
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, StatsResponse{
		Confirmed:  stats[booking.StatusConfirmed],
		Waitlisted: stats[booking.StatusWaitlisted],
		Cancelled:  stats[booking.StatusCancelled],
		TotalSeats: h.system.TotalSeats(),
	})
}

// Export godoc
// @Summary 予約履歴をCSVで出力
// @Tags bookings
// @Produce text/csv
// @Success 200 {string} string "ID,User,Seats,Time,Status"
// @Router /bookings/export [get]
func (h *BookingHandler) Export(c echo.Context) error {
	bookings, err := h.system.History(c.Request().Context())
	if err != nil {
		return api.NewHTTPError(err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.csv"`)
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write([]string{"ID", "User", "Seats", "Time", "Status"}); err != nil {
		return err
	}
	for _, b := range bookings {
		if err := w.Write([]string{
			strconv.FormatInt(b.ID, 10),
			b.Requester,
			strconv.Itoa(b.SeatsBooked),
			b.CreatedAt.Format(time.RFC3339),
			string(b.Status),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
