package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// UserRepository is the persistence contract for the user directory.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}

// ItemRepository is the persistence contract for the item catalog.
type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]models.Item, error)
}

// RequestRepository is the persistence contract for the item request board.
type RequestRepository interface {
	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error)
	GetRequestsExcludingRequestor(ctx context.Context, requestorID int64, page models.Page) ([]models.ItemRequest, error)
}

// BookingRepository is the persistence contract for the booking lifecycle.
// Listing queries take the caller's notion of now so that temporal filters
// stay deterministic under test.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error
	GetBookingsByBooker(ctx context.Context, bookerID int64, filter models.StatusFilter, now time.Time, page models.Page) ([]models.Booking, error)
	GetBookingsByItemOwner(ctx context.Context, ownerID int64, filter models.StatusFilter, now time.Time, page models.Page) ([]models.Booking, error)
	GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasFinishedApprovedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

// CommentRepository is the persistence contract for item comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
}

// EventPublisher publishes domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ItemCache caches persisted items by id. Implementations degrade to a miss
// on any backend failure.
type ItemCache interface {
	GetItem(ctx context.Context, id int64) (*models.Item, bool)
	SetItem(ctx context.Context, item *models.Item)
	InvalidateItem(ctx context.Context, id int64)
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, item *models.Item, ownerID int64) (*models.Item, error)
	UpdateItem(ctx context.Context, patch models.ItemPatch, ownerID int64) (*models.Item, error)
	GetItemByID(ctx context.Context, itemID, userID int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error)
	CreateComment(ctx context.Context, itemID int64, text string, authorID int64) (*models.Comment, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, description string, requestorID int64) (*models.ItemRequest, error)
	GetRequestByID(ctx context.Context, requestID, userID int64) (*models.ItemRequest, error)
	GetOwnRequests(ctx context.Context, requestorID int64) ([]models.ItemRequest, error)
	GetOtherRequests(ctx context.Context, userID int64, page models.Page) ([]models.ItemRequest, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, start, end time.Time, itemID, bookerID int64) (*models.Booking, error)
	GetBookingByID(ctx context.Context, bookingID, requesterID int64) (*models.Booking, error)
	ApproveOrReject(ctx context.Context, bookingID int64, approve bool, requesterID int64) (*models.Booking, error)
	GetBookingsByBooker(ctx context.Context, bookerID int64, statusFilter string, page models.Page) ([]models.Booking, error)
	GetBookingsByItemOwner(ctx context.Context, ownerID int64, statusFilter string, page models.Page) ([]models.Booking, error)
}
