package live

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/metrics"
	"github.com/mamadbah2/freightledger/internal/repository"
	"github.com/mamadbah2/freightledger/internal/service/reporting"
)

var (
	// ErrClosed is returned when starting a controller that was closed.
	ErrClosed = errors.New("live controller closed")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("live controller already started")
)

// Views is one consistent set of projections over a single snapshot.
type Views struct {
	Records    []models.Record      `json:"-"`
	Filter     models.FilterConfig  `json:"filter"`
	List       []models.Record      `json:"list"`
	Monthly    models.MonthlyReport `json:"monthly"`
	Yearly     models.YearlyReport  `json:"yearly"`
	Unpaid     models.UnpaidSummary `json:"unpaid"`
	Trend      []models.TrendPoint  `json:"trend"`
	Version    uint64               `json:"version"`
	ReceivedAt time.Time            `json:"receivedAt"`
}

// Selection overrides the controller's filter, month or year for a single
// reader. Nil fields keep the controller's choice.
type Selection struct {
	Filter *models.FilterConfig
	Month  *models.YearMonth
	Year   *int
}

// Select recomputes the selectable projections of v over the same snapshot.
// Unpaid and Trend do not depend on the selection and are shared.
func (v Views) Select(sel Selection) Views {
	if sel.Filter != nil {
		v.Filter = *sel.Filter
		v.List = reporting.ApplyFilter(v.Records, v.Filter)
	}
	if sel.Month != nil {
		v.Monthly = reporting.MonthlyView(v.Records, *sel.Month)
	}
	if sel.Year != nil {
		v.Yearly = reporting.YearlyView(v.Records, *sel.Year)
	}
	return v
}

// Controller keeps the reporting views in sync with the store's change feed.
// Every snapshot replaces the previous one wholesale.
type Controller struct {
	store   repository.Subscriber
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu         sync.RWMutex
	records    []models.Record
	receivedAt time.Time
	filter     models.FilterConfig
	month      models.YearMonth
	year       int
	views      Views
	watchers   map[*watcher]struct{}
	sub        repository.Subscription
	started    bool
	closed     bool
	done       chan struct{}
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics reports snapshot and recompute metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithClock overrides the time source used for defaults and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithFilter sets the initial list filter.
func WithFilter(f models.FilterConfig) Option {
	return func(c *Controller) { c.filter = f }
}

// WithMonth sets the initial monthly report selection.
func WithMonth(ym models.YearMonth) Option {
	return func(c *Controller) { c.month = ym }
}

// WithYear sets the initial yearly report selection.
func WithYear(year int) Option {
	return func(c *Controller) { c.year = year }
}

// New builds a controller over store. It computes nothing until Start.
func New(store repository.Subscriber, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		logger:   zap.NewNop(),
		now:      time.Now,
		filter:   models.DefaultFilter(),
		records:  []models.Record{},
		watchers: make(map[*watcher]struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	today := c.now()
	if c.month == (models.YearMonth{}) {
		c.month = models.YearMonthOf(today)
	}
	if c.year == 0 {
		c.year = today.Year()
	}
	c.views = c.compute()
	return c
}

// Start subscribes to the store and begins recomputing views on every push.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case c.started:
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	sub, err := c.store.Subscribe(ctx)
	if err != nil {
		c.mu.Lock()
		c.started = false
		c.mu.Unlock()
		return fmt.Errorf("subscribe records: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = sub.Close()
		return ErrClosed
	}
	c.sub = sub
	c.mu.Unlock()

	go c.run(sub)
	c.logger.Info("live views started")
	return nil
}

func (c *Controller) run(sub repository.Subscription) {
	defer close(c.done)
	for snapshot := range sub.Snapshots() {
		c.apply(snapshot)
	}
	c.logger.Info("live feed ended")
}

func (c *Controller) apply(snapshot []models.Record) {
	started := time.Now()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.records = models.NormalizeRecords(snapshot)
	c.receivedAt = c.now()
	views := c.recomputeLocked()
	c.mu.Unlock()

	c.metrics.ObserveSnapshot(time.Since(started), views.Unpaid.Count, views.Unpaid.TotalAmount)
	c.logger.Debug("snapshot applied",
		zap.Int("records", len(views.Records)),
		zap.Uint64("version", views.Version),
	)
}

// compute runs every engine over the current snapshot and configuration.
// The caller holds the lock or owns the controller exclusively.
func (c *Controller) compute() Views {
	return Views{
		Records:    c.records,
		Filter:     c.filter,
		List:       reporting.ApplyFilter(c.records, c.filter),
		Monthly:    reporting.MonthlyView(c.records, c.month),
		Yearly:     reporting.YearlyView(c.records, c.year),
		Unpaid:     reporting.Unpaid(c.records),
		Trend:      reporting.MonthlyTrend(c.records),
		Version:    c.views.Version,
		ReceivedAt: c.receivedAt,
	}
}

func (c *Controller) recomputeLocked() Views {
	views := c.compute()
	views.Version++
	c.views = views
	for w := range c.watchers {
		w.offer(views)
	}
	return views
}

// Views returns the last computed projections.
func (c *Controller) Views() Views {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.views
}

// Snapshot returns a copy of the last received record set.
func (c *Controller) Snapshot() []models.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Record, len(c.records))
	copy(out, c.records)
	return out
}

// SetFilter replaces the list filter and recomputes from the last snapshot.
func (c *Controller) SetFilter(f models.FilterConfig) Views {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
	return c.recomputeLocked()
}

// SetMonth selects the month of the monthly report.
func (c *Controller) SetMonth(ym models.YearMonth) Views {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.month = ym
	return c.recomputeLocked()
}

// SetYear selects the year of the yearly report.
func (c *Controller) SetYear(year int) Views {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.year = year
	return c.recomputeLocked()
}

// Watch streams every recomputation until ctx is done or the controller is
// closed. A slow reader only sees the most recent views.
func (c *Controller) Watch(ctx context.Context) <-chan Views {
	w := &watcher{ch: make(chan Views, 1)}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		w.close()
		return w.ch
	}
	c.watchers[w] = struct{}{}
	w.offer(c.views)
	c.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-c.done:
		}
		c.mu.Lock()
		delete(c.watchers, w)
		w.close()
		c.mu.Unlock()
	}()

	return w.ch
}

// Close releases the subscription and closes every watcher. It is safe to
// call more than once. Writes already sent to the store are unaffected.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	sub := c.sub
	for w := range c.watchers {
		delete(c.watchers, w)
		w.close()
	}
	c.mu.Unlock()

	if sub == nil {
		close(c.done)
		return nil
	}
	err := sub.Close()
	<-c.done
	c.logger.Info("live views stopped")
	if err != nil {
		return fmt.Errorf("close subscription: %w", err)
	}
	return nil
}

type watcher struct {
	ch     chan Views
	closed bool
}

// offer and close are called with the controller lock held.
func (w *watcher) offer(v Views) {
	if w.closed {
		return
	}
	select {
	case <-w.ch:
	default:
	}
	w.ch <- v
}

func (w *watcher) close() {
	if w.closed {
		return
	}
	w.closed = true
	close(w.ch)
}
