package models

type Item struct {
	ID          int64  `json:"id"`
	OwnerID     int64  `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	// RequestID links the item to the item request it fulfills; 0 means the
	// item was listed without a request.
	RequestID int64 `json:"request_id,omitempty"`

	// Populated on read, never persisted.
	LastBooking *BookingDates `json:"last_booking,omitempty"`
	NextBooking *BookingDates `json:"next_booking,omitempty"`
	Comments    []Comment     `json:"comments,omitempty"`
}

// ItemPatch carries a partial item update. Blank name/description and a nil
// available flag keep the stored values.
type ItemPatch struct {
	ID          int64
	Name        string
	Description string
	Available   *bool
}
