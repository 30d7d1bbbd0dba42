package models

import "shareit/internal/apperrors"

// StatusFilter selects a temporal or status subset of bookings in listings.
type StatusFilter string

const (
	FilterAll      StatusFilter = "ALL"
	FilterCurrent  StatusFilter = "CURRENT"
	FilterPast     StatusFilter = "PAST"
	FilterFuture   StatusFilter = "FUTURE"
	FilterWaiting  StatusFilter = "WAITING"
	FilterRejected StatusFilter = "REJECTED"
)

// ParseStatusFilter matches the token case-sensitively against the six
// recognized filters. The error message for anything else is fixed wire
// behavior and must not be reworded.
func ParseStatusFilter(token string) (StatusFilter, error) {
	switch StatusFilter(token) {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected:
		return StatusFilter(token), nil
	default:
		return "", apperrors.InvalidArgumentf("Unknown state: UNSUPPORTED_STATUS")
	}
}
