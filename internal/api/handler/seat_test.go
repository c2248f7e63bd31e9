package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/booking"
	"github.com/Vishnujha44/MultiThreadedTicketBookings/internal/domain/seat"
)

func TestSeatHandler_SeatMap(t *testing.T) {
	e := NewTestEcho()
	owner := int64(7)
	mockSystem := new(MockBookingSystem)
	mockSystem.On("SeatMap", mock.Anything).Return([]seat.State{
		{ID: 1, Availability: seat.AvailabilityBooked, BookingID: &owner},
		{ID: 2, Availability: seat.AvailabilityAvailable},
	}, nil)

	rec := serve(e, NewSeatHandler(mockSystem).SeatMap, httptest.NewRequest(http.MethodGet, "/seats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []SeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Booked", resp[0].Availability)
	assert.Equal(t, owner, *resp[0].BookingID)
	assert.Equal(t, "Available", resp[1].Availability)
	assert.Nil(t, resp[1].BookingID)
}

func TestSeatHandler_CountAvailable(t *testing.T) {
	e := NewTestEcho()

	t.Run("空席数を返す", func(t *testing.T) {
		mockSystem := new(MockBookingSystem)
		mockSystem.On("AvailableCount", mock.Anything).Return(12, nil)
		mockSystem.On("TotalSeats").Return(20)

		rec := serve(e, NewSeatHandler(mockSystem).CountAvailable,
			httptest.NewRequest(http.MethodGet, "/seats/available/count", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"available_count":12,"total_seats":20}`, rec.Body.String())
	})

	t.Run("取得失敗は500", func(t *testing.T) {
		mockSystem := new(MockBookingSystem)
		mockSystem.On("AvailableCount", mock.Anything).Return(0, assert.AnError)

		rec := serve(e, NewSeatHandler(mockSystem).CountAvailable,
			httptest.NewRequest(http.MethodGet, "/seats/available/count", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestWaitlistHandler_Promote(t *testing.T) {
	e := NewTestEcho()
	mockSystem := new(MockBookingSystem)
	mockSystem.On("PromoteWaitlist", mock.Anything).Return([]*booking.Booking{
		{ID: 4, Requester: "Dave", SeatsBooked: 1, Status: booking.StatusConfirmed, SeatIDs: []int{5}},
	}, nil)

	rec := serve(e, NewWaitlistHandler(mockSystem).Promote,
		httptest.NewRequest(http.MethodPost, "/waitlist/promote", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(4), resp[0].ID)
	assert.Equal(t, []int{5}, resp[0].SeatIDs)
}

type fakeLoadGenerator struct{ accept bool }

func (f *fakeLoadGenerator) Trigger() bool { return f.accept }

func TestLoadGenHandler_Start(t *testing.T) {
	e := NewTestEcho()

	rec := serve(e, NewLoadGenHandler(&fakeLoadGenerator{accept: true}).Start,
		httptest.NewRequest(http.MethodPost, "/loadgen", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = serve(e, NewLoadGenHandler(&fakeLoadGenerator{accept: false}).Start,
		httptest.NewRequest(http.MethodPost, "/loadgen", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
