package service

import (
	"context"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// RequestService manages the item request board. Requests are immutable
// after creation; the fulfilling items are discovered at read time.
type RequestService struct {
	requests domain.RequestRepository
	users    domain.UserRepository
	items    domain.ItemRepository
	logger   *zerolog.Logger
}

var _ domain.RequestService = (*RequestService)(nil)

func NewRequestService(requests domain.RequestRepository, users domain.UserRepository, items domain.ItemRepository, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		items:    items,
		logger:   logger,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, description string, requestorID int64) (*models.ItemRequest, error) {
	if _, err := s.users.GetUserByID(ctx, requestorID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Created:     time.Now(),
	}

	if err := s.requests.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requestor_id", requestorID).Msg("item request created")
	return request, nil
}

func (s *RequestService) GetRequestByID(ctx context.Context, requestID, userID int64) (*models.ItemRequest, error) {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFoundf("user #%d not found", userID)
	}

	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *RequestService) GetOwnRequests(ctx context.Context, requestorID int64) ([]models.ItemRequest, error) {
	exists, err := s.users.UserExists(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFoundf("user #%d not found", requestorID)
	}

	requests, err := s.requests.GetRequestsByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}

	return requests, s.attachItemsBatch(ctx, requests)
}

// GetOtherRequests lists requests posted by everyone except userID. No
// user-existence check here: an unknown caller simply sees the full board.
func (s *RequestService) GetOtherRequests(ctx context.Context, userID int64, page models.Page) ([]models.ItemRequest, error) {
	requests, err := s.requests.GetRequestsExcludingRequestor(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	return requests, s.attachItemsBatch(ctx, requests)
}

func (s *RequestService) attachItems(ctx context.Context, request *models.ItemRequest) error {
	items, err := s.items.GetItemsByRequestIDs(ctx, []int64{request.ID})
	if err != nil {
		return err
	}
	request.Items = items
	return nil
}

func (s *RequestService) attachItemsBatch(ctx context.Context, requests []models.ItemRequest) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(requests))
	for i := range requests {
		ids = append(ids, requests[i].ID)
	}

	items, err := s.items.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return err
	}

	byRequest := make(map[int64][]models.Item)
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], item)
	}

	for i := range requests {
		requests[i].Items = byRequest[requests[i].ID]
	}
	return nil
}
