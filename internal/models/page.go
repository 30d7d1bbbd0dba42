package models

const (
	// DefaultPageSize applies when a caller passes a zero limit.
	DefaultPageSize = 20

	// MaxPageSize is the upper bound the transport layer enforces.
	MaxPageSize = 100
)

// Page is a zero-based row offset plus page size. Range validation happens
// at the transport boundary; storage only applies LIMIT/OFFSET.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) LimitOrDefault() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	return p.Limit
}
