package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ticketgate"

var (
	CheckIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_total",
			Help:      "Check-in attempts by outcome (accepted, rejected, error)",
		},
		[]string{"outcome"},
	)

	TicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_issued_total",
			Help:      "Ticket issue attempts by result (created, duplicate, error)",
		},
		[]string{"result"},
	)

	QueuePublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_publish_failures_total",
			Help:      "Check-in events that could not be published to the queue",
		},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Check-in notifications by result (sent, failed)",
		},
		[]string{"result"},
	)
)

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"

	ResultCreated   = "created"
	ResultDuplicate = "duplicate"
	ResultError     = "error"

	ResultSent   = "sent"
	ResultFailed = "failed"
)
