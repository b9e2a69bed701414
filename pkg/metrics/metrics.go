package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	relationToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_relation_toggles_total",
		Help: "The total number of relationship toggles",
	}, []string{"kind", "state"})

	contentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_content_mutations_total",
		Help: "The total number of content create/update/delete operations",
	}, []string{"entity", "operation"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidtube_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func ObserveToggle(kind string, active bool) {
	state := "inactive"
	if active {
		state = "active"
	}
	relationToggles.WithLabelValues(kind, state).Inc()
}

func ObserveMutation(entity, operation string) {
	contentMutations.WithLabelValues(entity, operation).Inc()
}

// Middleware records request latency labelled by the matched route template.
func Middleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestDuration.
			WithLabelValues(string(c.Method()), route, strconv.Itoa(c.Response.StatusCode())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry in the exposition format.
func Handler() app.HandlerFunc {
	return adaptor.HertzHandler(promhttp.Handler())
}
