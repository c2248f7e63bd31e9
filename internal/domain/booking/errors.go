package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound    = errors.New("予約が見つかりません")
	ErrNoConfirmedBooking = errors.New("キャンセル可能な確定済み予約がありません")
	ErrInvalidRequester   = errors.New("予約者名は1〜50文字の英数字または空白である必要があります")
	ErrInvalidSeatCount   = errors.New("座席数は1〜10である必要があります")
	ErrInvalidStatus      = errors.New("不正な予約状態です")
	ErrInvalidTransition  = errors.New("許可されていない状態遷移です")
)
