// Package observability holds the Prometheus instruments shared across the
// application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostViewsTotal counts post page views recorded through slug lookups.
	PostViewsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_post_views_total",
		Help: "Total number of post views recorded",
	})

	// CommentReportsTotal counts moderation reports filed against comments.
	CommentReportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_comment_reports_total",
		Help: "Total number of comment reports filed",
	})

	// CommentsHiddenTotal counts comments hidden after crossing the report
	// threshold.
	CommentsHiddenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_comments_hidden_total",
		Help: "Total number of comments hidden by the report threshold",
	})

	// NewsletterSubscriptionsTotal counts newsletter signups by outcome.
	NewsletterSubscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_newsletter_subscriptions_total",
		Help: "Total newsletter subscription attempts by outcome",
	}, []string{"outcome"})

	// ExternalFetchesTotal counts upstream fetches for the aggregation
	// endpoints by source and result.
	ExternalFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_external_fetches_total",
		Help: "Total external content fetches by source and result",
	}, []string{"source", "result"})
)

const queryStartKey = "observability:query_start"

// RegisterDatabaseMetrics hooks the gorm callback chain so every statement
// feeds DatabaseQueryLatency, labelled by operation and table.
func RegisterDatabaseMetrics(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []func() error{
		func() error {
			return cb.Create().Before("gorm:create").Register("metrics:before_create", markQueryStart)
		},
		func() error {
			return cb.Create().After("gorm:create").Register("metrics:after_create", observeQueryEnd("create"))
		},
		func() error {
			return cb.Query().Before("gorm:query").Register("metrics:before_query", markQueryStart)
		},
		func() error {
			return cb.Query().After("gorm:query").Register("metrics:after_query", observeQueryEnd("query"))
		},
		func() error {
			return cb.Update().Before("gorm:update").Register("metrics:before_update", markQueryStart)
		},
		func() error {
			return cb.Update().After("gorm:update").Register("metrics:after_update", observeQueryEnd("update"))
		},
		func() error {
			return cb.Delete().Before("gorm:delete").Register("metrics:before_delete", markQueryStart)
		},
		func() error {
			return cb.Delete().After("gorm:delete").Register("metrics:after_delete", observeQueryEnd("delete"))
		},
		func() error {
			return cb.Row().Before("gorm:row").Register("metrics:before_row", markQueryStart)
		},
		func() error {
			return cb.Row().After("gorm:row").Register("metrics:after_row", observeQueryEnd("row"))
		},
		func() error {
			return cb.Raw().Before("gorm:raw").Register("metrics:before_raw", markQueryStart)
		},
		func() error {
			return cb.Raw().After("gorm:raw").Register("metrics:after_raw", observeQueryEnd("raw"))
		},
	}
	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func markQueryStart(tx *gorm.DB) {
	tx.InstanceSet(queryStartKey, time.Now())
}

func observeQueryEnd(op string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}
		table := tx.Statement.Table
		if table == "" {
			table = "unknown"
		}
		DatabaseQueryLatency.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	}
}
