package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
)

// Metrics はプロセス専用のレジストリと業務メトリクスを保持します。
type Metrics struct {
	subsystem     string
	registry      *prometheus.Registry
	notifications *prometheus.CounterVec
}

// New は Metrics を生成し、ランタイムのコレクタを登録します。
func New(subsystem string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "notifications_created_total",
		Help:      "Number of notifications written, by triggering event.",
	}, []string{"kind"})
	reg.MustRegister(notifications)

	return &Metrics{subsystem: subsystem, registry: reg, notifications: notifications}
}

// Registry は内部のレジストリを返します。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// NotificationCreated は notification.Observer を満たします。
func (m *Metrics) NotificationCreated(kind notification.Kind) {
	label := string(kind)
	if label == "" {
		label = "unknown"
	}
	m.notifications.WithLabelValues(label).Inc()
}

// RegisterPoolStats は PostgreSQL プールの接続数をゲージとして公開します。
func (m *Metrics) RegisterPoolStats(stat func() *pgxpool.Stat) {
	gauge := func(name, help string, value func(*pgxpool.Stat) int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Subsystem: "pgxpool",
			Name:      name,
			Help:      help,
		}, func() float64 {
			return float64(value(stat()))
		})
	}

	m.registry.MustRegister(
		gauge("total_conns", "Total number of connections in the pool.", (*pgxpool.Stat).TotalConns),
		gauge("idle_conns", "Number of idle connections in the pool.", (*pgxpool.Stat).IdleConns),
		gauge("acquired_conns", "Number of connections currently in use.", (*pgxpool.Stat).AcquiredConns),
		gauge("max_conns", "Maximum size of the pool.", (*pgxpool.Stat).MaxConns),
	)
}

// Middleware はリクエストメトリクスを記録する echo ミドルウェアを返します。
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  m.subsystem,
		Registerer: m.registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/api/metrics"
		},
	})
}

// Handler は /metrics 用のハンドラーを返します。
func (m *Metrics) Handler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: m.registry})
}
