package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotAvailable      = errors.New("座席は予約できません")
	ErrSeatAlreadyAssigned   = errors.New("座席は既に割り当てられています")
	ErrSeatSelectionMismatch = errors.New("指定座席数が予約座席数と一致しません")
	ErrSeatOutOfRange        = errors.New("座席番号が範囲外です")
	ErrInvalidCapacity       = errors.New("総座席数は1以上である必要があります")
)
