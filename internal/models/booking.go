package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	// StatusCanceled is part of the declared status set but no operation
	// transitions a booking into it.
	StatusCanceled BookingStatus = "CANCELED"
)

type Booking struct {
	ID       int64         `json:"id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	ItemID   int64         `json:"item_id"`
	BookerID int64         `json:"booker_id"`
	Status   BookingStatus `json:"status"`
}

// BookingDates is the short booking summary attached to an item on read.
type BookingDates struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Dates extracts the summary form of a booking.
func (b *Booking) Dates() *BookingDates {
	if b == nil {
		return nil
	}
	return &BookingDates{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}
