package handler

import (
	"context"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/application"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/seat"
)

// BookingSystemInterface は予約システムのインターフェース
type BookingSystemInterface interface {
	Book(ctx context.Context, in application.BookInput) (*booking.Booking, error)
	Cancel(ctx context.Context, requester string, seats int) (*booking.Booking, error)
	PromoteWaitlist(ctx context.Context) ([]*booking.Booking, error)
	History(ctx context.Context) ([]*booking.Booking, error)
	Stats(ctx context.Context) (map[booking.Status]int, error)
	SeatMap(ctx context.Context) ([]seat.State, error)
	AvailableCount(ctx context.Context) (int, error)
	TotalSeats() int
}

// UpdateSubscriber は変更通知の購読を提供する
type UpdateSubscriber interface {
	Subscribe(fn func()) (unsubscribe func())
}

// LoadGenerator はランダム予約を非同期に開始する
type LoadGenerator interface {
	Trigger() bool
}

var (
	_ BookingSystemInterface = (*application.BookingSystem)(nil)
	_ UpdateSubscriber       = (*application.BookingSystem)(nil)
)
