package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBookingService(repo *mockRepo, bus *mockEventBus) *BookingService {
	logger := zerolog.New(io.Discard)
	if bus == nil {
		return NewBookingService(repo, repo, repo, nil, &logger)
	}
	return NewBookingService(repo, repo, repo, bus, &logger)
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	start := time.Now().Add(time.Hour)
	end := start.Add(24 * time.Hour)

	t.Run("NewBookingIsWaiting", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		svc := newBookingService(repo, bus)

		repo.On("GetUserByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(&models.Item{ID: 1, OwnerID: 5, Available: true}, nil).Once()
		repo.On("CreateBooking", ctx, mock.AnythingOfType("*models.Booking")).Return(nil).Once()
		bus.On("PublishJSON", "booking_created", mock.Anything).Return(nil).Once()

		booking, err := svc.CreateBooking(ctx, start, end, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, models.StatusWaiting, booking.Status)
		assert.Equal(t, int64(2), booking.BookerID)
		repo.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("StartNotBeforeEnd", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("GetUserByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil).Twice()
		repo.On("GetItemByID", ctx, int64(1)).Return(&models.Item{ID: 1, OwnerID: 5, Available: true}, nil).Twice()

		_, err := svc.CreateBooking(ctx, end, start, 1, 2)
		assert.True(t, apperrors.IsValidation(err))

		// start == end is rejected too
		_, err = svc.CreateBooking(ctx, start, start, 1, 2)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("UnavailableItem", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("GetUserByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(&models.Item{ID: 1, OwnerID: 5, Available: false}, nil).Once()

		_, err := svc.CreateBooking(ctx, start, end, 1, 2)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("OwnerBookingOwnItem", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("GetUserByID", ctx, int64(5)).Return(&models.User{ID: 5}, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(&models.Item{ID: 1, OwnerID: 5, Available: true}, nil).Once()

		// Denial is reported as not-found, never as forbidden.
		_, err := svc.CreateBooking(ctx, start, end, 1, 5)
		assert.True(t, apperrors.IsNotFound(err))
		assert.False(t, apperrors.IsForbidden(err))
	})

	t.Run("UnknownBooker", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("GetUserByID", ctx, int64(99)).Return(nil, apperrors.NotFoundf("user #99 not found")).Once()

		_, err := svc.CreateBooking(ctx, start, end, 1, 99)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestGetBookingByID(t *testing.T) {
	ctx := context.Background()
	booking := &models.Booking{ID: 7, ItemID: 1, BookerID: 2, Status: models.StatusWaiting}
	item := &models.Item{ID: 1, OwnerID: 5}

	t.Run("BookerSees", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("GetBookingByID", ctx, int64(7)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()

		got, err := svc.GetBookingByID(ctx, 7, 2)
		require.NoError(t, err)
		assert.Equal(t, booking, got)
	})

	t.Run("OwnerSees", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("GetBookingByID", ctx, int64(7)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()

		_, err := svc.GetBookingByID(ctx, 7, 5)
		assert.NoError(t, err)
	})

	t.Run("StrangerGetsNotFound", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("GetBookingByID", ctx, int64(7)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()

		_, err := svc.GetBookingByID(ctx, 7, 3)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestApproveOrReject(t *testing.T) {
	ctx := context.Background()
	item := &models.Item{ID: 1, OwnerID: 5}

	t.Run("Approve", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		svc := newBookingService(repo, bus)
		booking := &models.Booking{ID: 7, ItemID: 1, BookerID: 2, Status: models.StatusWaiting}

		repo.On("GetBookingByID", ctx, int64(7)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()
		repo.On("UpdateBookingStatus", ctx, int64(7), models.StatusApproved).Return(nil).Once()
		bus.On("PublishJSON", "booking_approved", mock.Anything).Return(nil).Once()

		got, err := svc.ApproveOrReject(ctx, 7, true, 5)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
		repo.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("Reject", func(t *testing.T) {
		repo := new(mockRepo)
		bus := new(mockEventBus)
		svc := newBookingService(repo, bus)
		booking := &models.Booking{ID: 7, ItemID: 1, BookerID: 2, Status: models.StatusWaiting}

		repo.On("GetBookingByID", ctx, int64(7)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()
		repo.On("UpdateBookingStatus", ctx, int64(7), models.StatusRejected).Return(nil).Once()
		bus.On("PublishJSON", "booking_rejected", mock.Anything).Return(nil).Once()

		got, err := svc.ApproveOrReject(ctx, 7, false, 5)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.Status)
	})

	t.Run("SecondDecisionFails", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)
		booking := &models.Booking{ID: 7, ItemID: 1, BookerID: 2, Status: models.StatusApproved}

		repo.On("GetBookingByID", ctx, int64(7)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()

		_, err := svc.ApproveOrReject(ctx, 7, true, 5)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "already approved")
	})

	t.Run("BookerCannotDecide", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)
		booking := &models.Booking{ID: 7, ItemID: 1, BookerID: 2, Status: models.StatusWaiting}

		repo.On("GetBookingByID", ctx, int64(7)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()

		// The booker may view the booking, so the access rule passes and the
		// owner check fires; still a not-found, never a forbidden.
		_, err := svc.ApproveOrReject(ctx, 7, true, 2)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("StrangerCannotDecide", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)
		booking := &models.Booking{ID: 7, ItemID: 1, BookerID: 2, Status: models.StatusWaiting}

		repo.On("GetBookingByID", ctx, int64(7)).Return(booking, nil).Once()
		repo.On("GetItemByID", ctx, int64(1)).Return(item, nil).Once()

		_, err := svc.ApproveOrReject(ctx, 7, true, 9)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBookingListings(t *testing.T) {
	ctx := context.Background()
	page := models.Page{Limit: 10}

	t.Run("ByBooker", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)
		bookings := []models.Booking{{ID: 1, BookerID: 2}}

		repo.On("UserExists", ctx, int64(2)).Return(true, nil).Once()
		repo.On("GetBookingsByBooker", ctx, int64(2), models.FilterCurrent, mock.AnythingOfType("time.Time"), page).Return(bookings, nil).Once()

		got, err := svc.GetBookingsByBooker(ctx, 2, "CURRENT", page)
		require.NoError(t, err)
		assert.Equal(t, bookings, got)
		repo.AssertExpectations(t)
	})

	t.Run("ByOwner", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)
		bookings := []models.Booking{{ID: 1}}

		repo.On("UserExists", ctx, int64(5)).Return(true, nil).Once()
		repo.On("GetBookingsByItemOwner", ctx, int64(5), models.FilterAll, mock.AnythingOfType("time.Time"), page).Return(bookings, nil).Once()

		got, err := svc.GetBookingsByItemOwner(ctx, 5, "ALL", page)
		require.NoError(t, err)
		assert.Equal(t, bookings, got)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("UserExists", ctx, int64(99)).Return(false, nil).Twice()

		_, err := svc.GetBookingsByBooker(ctx, 99, "ALL", page)
		assert.True(t, apperrors.IsNotFound(err))

		_, err = svc.GetBookingsByItemOwner(ctx, 99, "ALL", page)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("UnsupportedFilter", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newBookingService(repo, nil)

		repo.On("UserExists", ctx, int64(2)).Return(true, nil).Twice()

		_, err := svc.GetBookingsByBooker(ctx, 2, "current", page)
		assert.True(t, apperrors.IsInvalidArgument(err))
		assert.EqualError(t, err, "Unknown state: UNSUPPORTED_STATUS")

		_, err = svc.GetBookingsByItemOwner(ctx, 2, "FINISHED", page)
		assert.True(t, apperrors.IsInvalidArgument(err))
	})
}
