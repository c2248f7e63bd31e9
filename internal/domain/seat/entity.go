package seat

// Availability は座席マップ上の表示状態を表す
type Availability string

const (
	AvailabilityAvailable Availability = "Available"
	AvailabilityBooked    Availability = "Booked"
)

// Seat は座席エンティティを表す
// 座席IDは 1..N の連番で、システム構築時に総数 N が決まる
type Seat struct {
	ID        int
	BookingID *int64 // 割り当て先の予約ID（空席は nil）
}

// NewSeat は空席状態の座席を作成する
func NewSeat(id int) *Seat {
	return &Seat{ID: id}
}

// IsAvailable は座席が割り当て可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.BookingID == nil
}

// Assign は座席を予約に割り当てる
func (s *Seat) Assign(bookingID int64) error {
	if !s.IsAvailable() {
		return ErrSeatAlreadyAssigned
	}
	s.BookingID = &bookingID
	return nil
}

// Release は座席を解放する
func (s *Seat) Release() {
	s.BookingID = nil
}

// State は座席マップの1要素
type State struct {
	ID           int          `json:"seat_id"`
	Availability Availability `json:"availability"`
	BookingID    *int64       `json:"booking_id,omitempty"`
}

// State は座席の表示状態を返す
func (s *Seat) State() State {
	st := State{ID: s.ID, Availability: AvailabilityAvailable}
	if !s.IsAvailable() {
		st.Availability = AvailabilityBooked
		id := *s.BookingID
		st.BookingID = &id
	}
	return st
}

// ValidateSelection は指定座席が要求数と一致し、座席範囲内で重複がないかを検証する
// 空き状況の確認はロック取得後に CheckAvailable で行う
func ValidateSelection(seatIDs []int, requested, capacity int) error {
	if len(seatIDs) != requested {
		return ErrSeatSelectionMismatch
	}
	seen := make(map[int]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if id < 1 || id > capacity {
			return ErrSeatOutOfRange
		}
		if _, dup := seen[id]; dup {
			return ErrSeatSelectionMismatch
		}
		seen[id] = struct{}{}
	}
	return nil
}

// CheckAvailable は指定座席がすべて空席一覧に含まれるかを検証する
func CheckAvailable(seatIDs, available []int) error {
	free := make(map[int]struct{}, len(available))
	for _, id := range available {
		free[id] = struct{}{}
	}
	for _, id := range seatIDs {
		if _, ok := free[id]; !ok {
			return ErrSeatNotAvailable
		}
	}
	return nil
}
