package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/smartshopie/analytics-backend-go/internal/config"
	"github.com/smartshopie/analytics-backend-go/internal/core/metrics"
	"github.com/smartshopie/analytics-backend-go/internal/core/reporting"
	"github.com/smartshopie/analytics-backend-go/internal/core/system"
	"github.com/smartshopie/analytics-backend-go/internal/database"
)

// Handlers contains all HTTP handlers and their dependencies
type Handlers struct {
	cfg     *config.Config
	repos   *database.Repositories
	db      *sqlx.DB
	log     *logrus.Logger
	metrics *metrics.Collector
	system  *system.Service
}

// NewHandlers creates a new Handlers instance
func NewHandlers(cfg *config.Config, repos *database.Repositories, db *sqlx.DB, log *logrus.Logger, collector *metrics.Collector) *Handlers {
	return &Handlers{
		cfg:     cfg,
		repos:   repos,
		db:      db,
		log:     log,
		metrics: collector,
		system:  system.NewService(log),
	}
}

// periodRange resolves the period query parameter into a date window.
// Unknown tokens resolve like the default, so this cannot fail.
func periodRange(c *gin.Context) reporting.Range {
	return reporting.ResolveNow(c.Query("period"))
}

// observeQuery records the wall time a report's store queries took.
func (h *Handlers) observeQuery(report string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordQuery(report, time.Since(start))
	}
}

// markFallback records a report served from substituted data.
func (h *Handlers) markFallback(report, period string) {
	if h.metrics != nil {
		h.metrics.RecordFallback(report, period)
	}
	h.log.WithFields(logrus.Fields{
		"report": report,
		"period": period,
	}).Warn("Serving fallback data")
}

// markNoData records a report that was empty even after fallback.
func (h *Handlers) markNoData(report string) {
	if h.metrics != nil {
		h.metrics.RecordNoData(report)
	}
}
