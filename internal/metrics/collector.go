package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector refreshes table-count gauges periodically
type BusinessMetricsCollector struct {
	db       *gorm.DB
	metrics  *Metrics
	logger   *zap.Logger
	interval time.Duration
	done     chan struct{}
}

func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger, interval time.Duration) *BusinessMetricsCollector {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &BusinessMetricsCollector{
		db:       db,
		metrics:  metrics,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start collects once immediately and then on every tick
func (c *BusinessMetricsCollector) Start() {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

func (c *BusinessMetricsCollector) Stop() {
	close(c.done)
}

func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection", zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if n, ok := c.count(ctx, "teams", ""); ok {
		c.metrics.SetTeamsTotal(n)
	}
	if n, ok := c.count(ctx, "registrations", ""); ok {
		c.metrics.SetRegistrationsTotal(n)
	}
	if n, ok := c.count(ctx, "notification_outbox", "status = 'PENDING'"); ok {
		c.metrics.SetOutboxPending(n)
	}
}

func (c *BusinessMetricsCollector) count(ctx context.Context, table, where string) (int64, bool) {
	var n int64
	q := c.db.WithContext(ctx).Table(table)
	if where != "" {
		q = q.Where(where)
	}
	if err := q.Count(&n).Error; err != nil {
		c.logger.Error("Failed to count rows", zap.String("table", table), zap.Error(err))
		return 0, false
	}
	return n, true
}
