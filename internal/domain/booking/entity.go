package booking

import (
	"fmt"
	"regexp"
	"time"
)

// Status は予約の状態を表す
type Status string

const (
	StatusConfirmed  Status = "CONFIRMED"
	StatusWaitlisted Status = "WAITLISTED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses は全状態を定義順で返す
func Statuses() []Status {
	return []Status{StatusConfirmed, StatusWaitlisted, StatusCancelled}
}

// IsValid は定義済みの状態かを返す
func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusWaitlisted, StatusCancelled:
		return true
	}
	return false
}

const (
	// MaxSeatsPerBooking は1件の予約で要求できる座席数の上限
	MaxSeatsPerBooking = 10
	// MaxRequesterLength は予約者名の最大文字数
	MaxRequesterLength = 50
)

var requesterPattern = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

// Booking は予約エンティティを表す
// Status 以外は作成後に変更しない
type Booking struct {
	ID          int64
	Requester   string
	SeatsBooked int
	CreatedAt   time.Time
	Status      Status
	SeatIDs     []int // 確定時に割り当てた座席（台帳には保存しない）
}

// NewBooking は新しい予約を作成する
func NewBooking(requester string, seats int, status Status) *Booking {
	return &Booking{
		Requester:   requester,
		SeatsBooked: seats,
		CreatedAt:   time.Now(),
		Status:      status,
	}
}

// IsConfirmed は予約が確定済みかを返す
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsWaitlisted はキャンセル待ちかを返す
func (b *Booking) IsWaitlisted() bool {
	return b.Status == StatusWaitlisted
}

// Promote はキャンセル待ちの予約を確定する
func (b *Booking) Promote() error {
	if b.Status != StatusWaitlisted {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, StatusConfirmed)
	}
	b.Status = StatusConfirmed
	return nil
}

// Cancel は確定済みの予約をキャンセルする
func (b *Booking) Cancel() error {
	if b.Status != StatusConfirmed {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, StatusCancelled)
	}
	b.Status = StatusCancelled
	return nil
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if err := ValidateRequester(b.Requester); err != nil {
		return err
	}
	if err := ValidateSeatCount(b.SeatsBooked); err != nil {
		return err
	}
	if !b.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func (b *Booking) String() string {
	return fmt.Sprintf("Booking{id=%d, user='%s', seats=%d, time=%s, status='%s'}",
		b.ID, b.Requester, b.SeatsBooked, b.CreatedAt.Format(time.RFC3339), b.Status)
}

// ValidateRequester は予約者名が 1〜50 文字の英数字と空白のみかを検証する
func ValidateRequester(name string) error {
	if name == "" || len(name) > MaxRequesterLength || !requesterPattern.MatchString(name) {
		return ErrInvalidRequester
	}
	return nil
}

// ValidateSeatCount は要求座席数が 1〜10 かを検証する
func ValidateSeatCount(n int) error {
	if n < 1 || n > MaxSeatsPerBooking {
		return ErrInvalidSeatCount
	}
	return nil
}
