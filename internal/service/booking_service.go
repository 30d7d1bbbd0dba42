package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService drives the booking lifecycle: WAITING on creation, then a
// single owner decision to APPROVED or REJECTED. CANCELED is declared in the
// status set but no operation here produces it.
type BookingService struct {
	bookings domain.BookingRepository
	users    domain.UserRepository
	items    domain.ItemRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

var _ domain.BookingService = (*BookingService)(nil)

func NewBookingService(bookings domain.BookingRepository, users domain.UserRepository, items domain.ItemRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		users:    users,
		items:    items,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *BookingService) CreateBooking(ctx context.Context, start, end time.Time, itemID, bookerID int64) (*models.Booking, error) {
	if _, err := s.users.GetUserByID(ctx, bookerID); err != nil {
		return nil, err
	}

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if !start.Before(end) {
		return nil, apperrors.Validationf("booking start must be strictly before its end")
	}

	if !item.Available {
		return nil, apperrors.Validationf("item #%d is not available for booking", itemID)
	}

	// Reported as not-found rather than forbidden so that owners probing
	// their own items learn nothing extra. Intentional, matches the wire
	// behavior callers depend on.
	if item.OwnerID == bookerID {
		return nil, apperrors.NotFoundf("cannot book item #%d: the item owner and the booker are the same user", itemID)
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   itemID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
	}

	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.publishBookingEvent(events.EventBookingCreated, booking, bookerID)
	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", itemID).Int64("booker_id", bookerID).Msg("booking created")

	return booking, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, bookingID, requesterID int64) (*models.Booking, error) {
	booking, _, err := s.getBookingWithItem(ctx, bookingID, requesterID)
	return booking, err
}

// getBookingWithItem loads a booking and its item, applying the shared
// access rule: only the booker or the item owner may see the booking.
func (s *BookingService) getBookingWithItem(ctx context.Context, bookingID, requesterID int64) (*models.Booking, *models.Item, error) {
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	item, err := s.items.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		return nil, nil, err
	}

	if requesterID != booking.BookerID && requesterID != item.OwnerID {
		return nil, nil, apperrors.NotFoundf("insufficient access rights to view booking #%d", bookingID)
	}

	return booking, item, nil
}

func (s *BookingService) ApproveOrReject(ctx context.Context, bookingID int64, approve bool, requesterID int64) (*models.Booking, error) {
	booking, item, err := s.getBookingWithItem(ctx, bookingID, requesterID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != requesterID {
		return nil, apperrors.NotFoundf("insufficient access rights to change the status of booking #%d", bookingID)
	}

	if booking.Status != models.StatusWaiting {
		return nil, apperrors.Validationf("cannot approve or reject booking #%d: it is already %s",
			bookingID, strings.ToLower(string(booking.Status)))
	}

	newStatus := models.StatusRejected
	eventType := events.EventBookingRejected
	if approve {
		newStatus = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.bookings.UpdateBookingStatus(ctx, bookingID, newStatus); err != nil {
		return nil, err
	}
	booking.Status = newStatus

	metrics.IncBookingDecision(string(newStatus))
	s.publishBookingEvent(eventType, booking, requesterID)
	s.logger.Info().Int64("booking_id", bookingID).Str("status", string(newStatus)).Int64("owner_id", requesterID).Msg("booking decided")

	return booking, nil
}

func (s *BookingService) GetBookingsByBooker(ctx context.Context, bookerID int64, statusFilter string, page models.Page) ([]models.Booking, error) {
	exists, err := s.users.UserExists(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFoundf("user #%d not found", bookerID)
	}

	filter, err := models.ParseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	return s.bookings.GetBookingsByBooker(ctx, bookerID, filter, time.Now(), page)
}

func (s *BookingService) GetBookingsByItemOwner(ctx context.Context, ownerID int64, statusFilter string, page models.Page) ([]models.Booking, error) {
	exists, err := s.users.UserExists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFoundf("user #%d not found", ownerID)
	}

	filter, err := models.ParseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	return s.bookings.GetBookingsByItemOwner(ctx, ownerID, filter, time.Now(), page)
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
		ActorID:   actorID,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
