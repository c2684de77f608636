package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntitiesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_entities_created_total",
		Help: "Total number of entities created, by entity type",
	}, []string{"entity"})

	EntitiesDeletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_entities_deleted_total",
		Help: "Total number of delete requests issued, by entity type",
	}, []string{"entity"})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_orders_created_total",
		Help: "Total number of orders created",
	})

	OrderItemsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_order_items_dropped_total",
		Help: "Order items skipped because the referenced product does not exist",
	})

	WriteFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_write_failures_total",
		Help: "Total number of failed datastore writes, by entity type",
	}, []string{"entity"})

	SearchRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_search_requests_total",
		Help: "Total number of cross-entity search requests",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
