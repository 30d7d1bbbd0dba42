package models

import "time"

// ItemRequest is a posted need for an item that is not listed yet. Items
// fulfilling it reference the request by id and are attached on read.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`

	// Populated on read.
	Items []Item `json:"items,omitempty"`
}
