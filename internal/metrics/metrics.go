package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_created_total",
			Help:      "Bookings created in WAITING state.",
		},
	)

	bookingDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_decisions_total",
			Help:      "Owner decisions on waiting bookings.",
		},
		[]string{"decision"},
	)

	commentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "comments_created_total",
			Help:      "Comments accepted by the comment gate.",
		},
	)

	itemsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "items_created_total",
			Help:      "Items listed in the catalog.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingDecisions, commentsCreated, itemsCreated)
	})
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingDecision counts an approve or reject, labeled by the resulting
// status.
func IncBookingDecision(decision string) {
	bookingDecisions.WithLabelValues(decision).Inc()
}

func IncCommentCreated() {
	commentsCreated.Inc()
}

func IncItemCreated() {
	itemsCreated.Inc()
}
