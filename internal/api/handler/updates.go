package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/pkg/logger"
)

const defaultHeartbeat = 15 * time.Second

// UpdatesHandler は予約状態の変化を Server-Sent Events で配信する
type UpdatesHandler struct {
	sub       UpdateSubscriber
	system    BookingSystemInterface
	heartbeat time.Duration
}

func NewUpdatesHandler(sub UpdateSubscriber, s BookingSystemInterface) *UpdatesHandler {
	return &UpdatesHandler{sub: sub, system: s, heartbeat: defaultHeartbeat}
}

// Stream godoc
// @Summary 予約状態の更新を購読
// @Description 変更のたびに update イベントで最新の統計を送ります
// @Tags updates
// @Produce text/event-stream
// @Router /updates [get]
func (h *UpdatesHandler) Stream(c echo.Context) error {
	ctx := c.Request().Context()

	// コールバックは変更を行ったゴルーチンで呼ばれるのでブロックしない
	signal := make(chan struct{}, 1)
	unsubscribe := h.sub.Subscribe(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	res := c.Response()
	// サーバーの WriteTimeout で長時間の接続が切れないようにする
	_ = http.NewResponseController(res.Writer).SetWriteDeadline(time.Time{})
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := h.writeUpdate(c); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-signal:
			if err := h.writeUpdate(c); err != nil {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case <-ctx.Done():
			return nil
		}
	}
}

func (h *UpdatesHandler) writeUpdate(c echo.Context) error {
	stats, err := h.system.Stats(c.Request().Context())
	if err != nil {
		logger.Warn("更新通知用の統計取得に失敗", zap.Error(err))
		return err
	}
	data, err := json.Marshal(StatsResponse{
		Confirmed:  stats[booking.StatusConfirmed],
		Waitlisted: stats[booking.StatusWaitlisted],
		Cancelled:  stats[booking.StatusCancelled],
		TotalSeats: h.system.TotalSeats(),
	})
	if err != nil {
		return err
	}
	res := c.Response()
	if _, err := fmt.Fprintf(res, "event: update\ndata: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
