package prom

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	xhttp "github.com/nimasrn/record-shop/pkg/http"
	"github.com/nimasrn/record-shop/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemHTTP       = "http"
	SystemEntity     = "entity"
	SystemChangefeed = "changefeed"
)

const (
	MetricRequestsTotal           = "requests_total"
	MetricRequestDuration         = "request_duration_seconds"
	MetricOperationsTotal         = "operations_total"
	MetricOperationDuration       = "operation_duration_seconds"
	MetricEventsTotal             = "events_total"
	MetricEventProcessingDuration = "event_processing_duration_seconds"
	MetricStreamLength            = "stream_length"
)

const (
	TypeCounter      = "counter"
	TypeCounterVec   = "counterVec"
	TypeHistogram    = "histogram"
	TypeHistogramVec = "histogramVec"
	TypeGaugeVec     = "gaugeVec"
)

// MetricSystemEnabled is set by Create. Until then every observation is a
// no-op, which keeps tests and metric-less binaries quiet.
var MetricSystemEnabled = false

var (
	mu            sync.RWMutex
	namespace     = "none"
	defaultLabels prometheus.Labels
	collectors    = make(map[string]prometheus.Collector)
)

// Create registers the metrics of every subsystem under nameSpace, labelled
// with the host and environment. Calling it again reuses the collectors that
// are already registered.
func Create(host string, env string, nameSpace string) error {
	mu.Lock()
	defaultLabels = prometheus.Labels{"env": env, "instance": host}
	namespace = nameSpace
	mu.Unlock()
	MetricSystemEnabled = true

	return errors.Join(
		CreateMetric(TypeCounterVec, SystemHTTP, MetricRequestsTotal, "method", "route", "status"),
		CreateMetric(TypeHistogramVec, SystemHTTP, MetricRequestDuration, "method", "route"),

		CreateMetric(TypeCounterVec, SystemEntity, MetricOperationsTotal, "entity", "operation", "outcome"),
		CreateMetric(TypeHistogramVec, SystemEntity, MetricOperationDuration, "entity", "operation"),

		CreateMetric(TypeCounterVec, SystemChangefeed, MetricEventsTotal, "entity", "action", "result"),
		CreateMetric(TypeHistogram, SystemChangefeed, MetricEventProcessingDuration),
		CreateMetric(TypeGaugeVec, SystemChangefeed, MetricStreamLength, "stream"),
	)
}

func CreateMetric(metricType, subsystem, name string, labels ...string) error {
	mu.RLock()
	ns, constLabels := namespace, defaultLabels
	mu.RUnlock()

	var c prometheus.Collector
	switch metricType {
	case TypeCounter:
		c = prometheus.NewCounter(prometheus.CounterOpts(opts(ns, subsystem, name, constLabels)))
	case TypeCounterVec:
		c = prometheus.NewCounterVec(prometheus.CounterOpts(opts(ns, subsystem, name, constLabels)), labels)
	case TypeHistogram:
		c = prometheus.NewHistogram(histogramOpts(ns, subsystem, name, constLabels))
	case TypeHistogramVec:
		c = prometheus.NewHistogramVec(histogramOpts(ns, subsystem, name, constLabels), labels)
	case TypeGaugeVec:
		c = prometheus.NewGaugeVec(prometheus.GaugeOpts(opts(ns, subsystem, name, constLabels)), labels)
	default:
		return fmt.Errorf("metric type %s is not defined", metricType)
	}
	return register(subsystem, name, c)
}

func opts(ns, subsystem, name string, constLabels prometheus.Labels) prometheus.Opts {
	return prometheus.Opts{
		Namespace:   ns,
		Subsystem:   subsystem,
		Name:        name,
		Help:        subsystem + " " + name,
		ConstLabels: constLabels,
	}
}

func histogramOpts(ns, subsystem, name string, constLabels prometheus.Labels) prometheus.HistogramOpts {
	o := opts(ns, subsystem, name, constLabels)
	return prometheus.HistogramOpts{
		Namespace:   o.Namespace,
		Subsystem:   o.Subsystem,
		Name:        o.Name,
		Help:        o.Help,
		ConstLabels: o.ConstLabels,
		Buckets:     prometheus.DefBuckets,
	}
}

func register(subsystem, name string, c prometheus.Collector) error {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return fmt.Errorf("register %s_%s: %w", subsystem, name, err)
		}
		c = are.ExistingCollector
	}

	mu.Lock()
	collectors[subsystem+"_"+name] = c
	mu.Unlock()
	return nil
}

// lookup returns the registered collector of type T, logging when it is
// missing or of another kind.
func lookup[T prometheus.Collector](subsystem, name string) (T, bool) {
	var zero T
	if !MetricSystemEnabled {
		return zero, false
	}

	mu.RLock()
	c, ok := collectors[subsystem+"_"+name]
	mu.RUnlock()

	v, typed := c.(T)
	if !ok || !typed {
		logger.Warn("[metrics-server] metric not found", "subsystem", subsystem, "name", name, "type", fmt.Sprintf("%T", zero))
		return zero, false
	}
	return v, true
}

func Handler() xhttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}

func ListenAndServer(addr string, url string) {
	s := xhttp.CreateServer()
	s.GET(url, Handler())
	logger.Info("[metrics-server] listening...", "addr", addr, "url", url)
	if err := s.ListenAndServe(addr); err != nil {
		logger.Panic("[metrics-server] http listen error", "error", err)
	}
}

func IncCounter(subsystem, name string) {
	if v, ok := lookup[prometheus.Counter](subsystem, name); ok {
		v.Inc()
	}
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if v, ok := lookup[*prometheus.CounterVec](subsystem, name); ok {
		v.WithLabelValues(labelValues...).Add(num)
	}
}

func SetGaugeVec(subsystem, name string, num float64, labelValues ...string) {
	if v, ok := lookup[*prometheus.GaugeVec](subsystem, name); ok {
		v.WithLabelValues(labelValues...).Set(num)
	}
}

func AddHistogram(subsystem, name string, number float64) {
	if v, ok := lookup[prometheus.Histogram](subsystem, name); ok {
		v.Observe(number)
	}
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if v, ok := lookup[*prometheus.HistogramVec](subsystem, name); ok {
		v.WithLabelValues(labelValues...).Observe(number)
	}
}

func ObserveRequest(method, route string, status int, seconds float64) {
	IncCounterVec(SystemHTTP, MetricRequestsTotal, method, route, strconv.Itoa(status))
	AddHistogramVec(SystemHTTP, MetricRequestDuration, seconds, method, route)
}

func ObserveEntityOperation(entity, operation, outcome string, seconds float64) {
	IncCounterVec(SystemEntity, MetricOperationsTotal, entity, operation, outcome)
	AddHistogramVec(SystemEntity, MetricOperationDuration, seconds, entity, operation)
}

func ObserveEvent(entity, action, result string, seconds float64) {
	IncCounterVec(SystemChangefeed, MetricEventsTotal, entity, action, result)
	AddHistogram(SystemChangefeed, MetricEventProcessingDuration, seconds)
}

func ObserveStreamLength(stream string, length int64) {
	SetGaugeVec(SystemChangefeed, MetricStreamLength, float64(length), stream)
}

// HTTPMiddleware counts every request by method, matched route and status.
func HTTPMiddleware(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(ctx *xhttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		ObserveRequest(string(ctx.Method()), xhttp.Route(ctx), ctx.Response.StatusCode(), time.Since(start).Seconds())
	}
}
