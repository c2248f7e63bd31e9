package handler

import (
	"github.com/labstack/echo/v4"
)

// UpdatesPath は SSE のルート（メトリクス対象外）
const UpdatesPath = "/api/v1/updates"

// Handlers はルーティングするハンドラー一式
type Handlers struct {
	Health   *HealthHandler
	Booking  *BookingHandler
	Seat     *SeatHandler
	Waitlist *WaitlistHandler
	LoadGen  *LoadGenHandler
	Updates  *UpdatesHandler
}

// RegisterRoutes は /health と /api/v1 配下のルートを登録する
// LoadGen が nil の場合は負荷生成のルートを登録しない
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/health", h.Health.Check)

	v1 := e.Group("/api/v1")
	v1.POST("/bookings", h.Booking.Book)
	v1.GET("/bookings", h.Booking.History)
	v1.POST("/bookings/cancel", h.Booking.Cancel)
	v1.GET("/bookings/stats", h.Booking.Stats)
	v1.GET("/bookings/export", h.Booking.Export)

	v1.GET("/seats", h.Seat.SeatMap)
	v1.GET("/seats/available/count", h.Seat.CountAvailable)

	v1.POST("/waitlist/promote", h.Waitlist.Promote)

	if h.LoadGen != nil {
		v1.POST("/loadgen", h.LoadGen.Start)
	}
	e.GET(UpdatesPath, h.Updates.Stream)
}
