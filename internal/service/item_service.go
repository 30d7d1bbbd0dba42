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

// ItemService manages the item catalog, read-time enrichment and the
// comment gate.
type ItemService struct {
	items    domain.ItemRepository
	users    domain.UserRepository
	requests domain.RequestRepository
	bookings domain.BookingRepository
	comments domain.CommentRepository
	cache    domain.ItemCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

var _ domain.ItemService = (*ItemService)(nil)

// NewItemService wires the catalog. cache may be nil; reads then always go
// to the repository.
func NewItemService(
	items domain.ItemRepository,
	users domain.UserRepository,
	requests domain.RequestRepository,
	bookings domain.BookingRepository,
	comments domain.CommentRepository,
	cache domain.ItemCache,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		requests: requests,
		bookings: bookings,
		comments: comments,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, item *models.Item, ownerID int64) (*models.Item, error) {
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	item.OwnerID = ownerID

	// A dangling request reference is dropped rather than rejected.
	if item.RequestID != 0 {
		exists, err := s.requests.RequestExists(ctx, item.RequestID)
		if err != nil {
			return nil, err
		}
		if !exists {
			item.RequestID = 0
		}
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	metrics.IncItemCreated()
	if s.cache != nil {
		s.cache.SetItem(ctx, item)
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")

	return item, nil
}

func (s *ItemService) UpdateItem(ctx context.Context, patch models.ItemPatch, ownerID int64) (*models.Item, error) {
	current, err := s.getItem(ctx, patch.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	// Unlike booking access checks, item updates answer with an explicit
	// forbidden: item existence is public anyway.
	if current.OwnerID != ownerID {
		return nil, apperrors.Forbiddenf("insufficient access rights to update item #%d", patch.ID)
	}

	if strings.TrimSpace(patch.Name) != "" {
		current.Name = patch.Name
	}
	if strings.TrimSpace(patch.Description) != "" {
		current.Description = patch.Description
	}
	if patch.Available != nil {
		current.Available = *patch.Available
	}

	if err := s.items.UpdateItem(ctx, current); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateItem(ctx, patch.ID)
	}

	return current, nil
}

func (s *ItemService) GetItemByID(ctx context.Context, itemID, userID int64) (*models.Item, error) {
	item, err := s.getItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Last/next booking summaries are an owner-only view; a non-owner read
	// must not carry them.
	if item.OwnerID == userID {
		if err := s.attachBookingDates(ctx, item); err != nil {
			return nil, err
		}
	}

	comments, err := s.comments.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.Comments = comments

	return item, nil
}

func (s *ItemService) GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error) {
	items, err := s.items.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if err := s.attachBookingDates(ctx, &items[i]); err != nil {
			return nil, err
		}
		comments, err := s.comments.GetCommentsByItem(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Comments = comments
	}

	return items, nil
}

func (s *ItemService) SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	return s.items.SearchItems(ctx, text, page)
}

// CreateComment lets a user comment on an item only after an approved
// rental of it has ended.
func (s *ItemService) CreateComment(ctx context.Context, itemID int64, text string, authorID int64) (*models.Comment, error) {
	now := time.Now()

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.getItem(ctx, itemID); err != nil {
		return nil, err
	}

	eligible, err := s.bookings.HasFinishedApprovedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apperrors.Validationf("user #%d has not rented item #%d or the rental period has not ended yet", authorID, itemID)
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    now,
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	metrics.IncCommentCreated()
	s.publishCommentEvent(comment)
	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Int64("author_id", authorID).Msg("comment created")

	return comment, nil
}

// getItem reads an item through the cache when one is configured.
func (s *ItemService) getItem(ctx context.Context, itemID int64) (*models.Item, error) {
	if s.cache != nil {
		if item, ok := s.cache.GetItem(ctx, itemID); ok {
			return item, nil
		}
	}

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetItem(ctx, item)
	}
	return item, nil
}

func (s *ItemService) attachBookingDates(ctx context.Context, item *models.Item) error {
	now := time.Now()

	last, err := s.bookings.GetLastBooking(ctx, item.ID, now)
	if err != nil {
		return err
	}
	next, err := s.bookings.GetNextBooking(ctx, item.ID, now)
	if err != nil {
		return err
	}

	item.LastBooking = last.Dates()
	item.NextBooking = next.Dates()
	return nil
}

func (s *ItemService) publishCommentEvent(comment *models.Comment) {
	if s.eventBus == nil {
		return
	}

	payload := events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    comment.ItemID,
		AuthorID:  comment.AuthorID,
		Created:   comment.Created,
	}

	if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
	}
}
