package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/application"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/seat"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/infrastructure/postgres"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// StatusOf は予約システムのエラーをHTTPステータスに対応付ける
func StatusOf(err error) int {
	switch {
	case errors.Is(err, seat.ErrSeatNotAvailable), errors.Is(err, seat.ErrSeatAlreadyAssigned):
		return http.StatusConflict
	case application.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrNoConfirmedBooking), errors.Is(err, booking.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, application.ErrLockUnavailable),
		errors.Is(err, postgres.ErrConnectionExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewHTTPError はエラーを対応するステータスの echo.HTTPError に変換する
// 5xx の場合は内部エラーの詳細を返さない
func NewHTTPError(err error) *echo.HTTPError {
	code := StatusOf(err)
	if code >= http.StatusInternalServerError {
		return echo.NewHTTPError(code, http.StatusText(code)).SetInternal(err)
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = NewHTTPError(err)
	}
	code := he.Code
	message, ok := he.Message.(string)
	if !ok {
		message = http.StatusText(code)
	}

	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if err := c.JSON(code, ErrorResponse{
		Error: message,
		Code:  code,
	}); err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
