package news

import (
	"context"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/madflojo/tasks"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-proxy/internal/config"
	"github.com/fleshka4/swap-proxy/internal/metrics"
)

const (
	upstreamName = "news"

	maxFeedBytes = 5 << 20
	userAgent    = "swap-proxy/1.0 (+news)"
)

// Item is one headline.
type Item struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Summary     string    `json:"summary,omitempty"`
}

// Snapshot is the merged view of all feeds at UpdatedAt.
// UpdatedAt is nil until the first successful refresh.
type Snapshot struct {
	Items     []Item     `json:"items"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// Aggregator polls feeds on an interval and keeps the latest merged snapshot in memory.
type Aggregator struct {
	feeds    []string
	interval time.Duration
	maxItems int

	http      *retryablehttp.Client
	scheduler *tasks.Scheduler
	log       *zap.Logger
	metrics   *metrics.Metrics

	mu       sync.RWMutex
	snapshot Snapshot
	taskID   string
}

// NewAggregator builds an Aggregator. It does nothing until Start is called.
func NewAggregator(cfg config.NewsConfig, log *zap.Logger, m *metrics.Metrics) *Aggregator {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = cfg.Timeout
	client.Logger = retryLogger{log: log.Sugar()}

	return &Aggregator{
		feeds:    cfg.Feeds,
		interval: cfg.RefreshInterval,
		maxItems: cfg.MaxItems,
		http:     client,
		log:      log,
		metrics:  m,
		snapshot: Snapshot{Items: []Item{}},
	}
}

// Start runs one refresh and schedules the rest. A failed first refresh is
// logged and does not prevent scheduling.
func (a *Aggregator) Start(ctx context.Context) error {
	if len(a.feeds) == 0 {
		a.log.Info("no news feeds configured")
		return nil
	}

	if err := a.Refresh(ctx); err != nil {
		a.log.Warn("initial news refresh failed", zap.Error(err))
	}

	a.scheduler = tasks.New()
	id, err := a.scheduler.Add(&tasks.Task{
		Interval: a.interval,
		TaskFunc: func() error {
			refreshCtx, cancel := context.WithTimeout(context.Background(), a.interval)
			defer cancel()
			return a.Refresh(refreshCtx)
		},
		ErrFunc: func(err error) {
			a.log.Warn("news refresh failed", zap.Error(err))
		},
	})
	if err != nil {
		return errors.Wrap(err, "a.scheduler.Add")
	}
	a.taskID = id

	a.log.Info("news refresh scheduled", zap.Int("feeds", len(a.feeds)), zap.Duration("interval", a.interval))
	return nil
}

// Stop cancels scheduled refreshes.
func (a *Aggregator) Stop() {
	if a.scheduler == nil {
		return
	}
	a.scheduler.Del(a.taskID)
	a.scheduler.Stop()
}

// Snapshot returns a copy of the current snapshot.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	items := make([]Item, len(a.snapshot.Items))
	copy(items, a.snapshot.Items)
	return Snapshot{Items: items, UpdatedAt: a.snapshot.UpdatedAt}
}

// Refresh fetches every feed concurrently and replaces the snapshot with the
// merged result. Feeds that fail are skipped; if all of them fail the previous
// snapshot is kept and the combined error returned.
func (a *Aggregator) Refresh(ctx context.Context) error {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		merged []Item
		errs   error
		failed int
	)

	for _, feed := range a.feeds {
		wg.Add(1)
		go func(feed string) {
			defer wg.Done()

			items, err := a.fetchFeed(ctx, feed)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				errs = multierr.Append(errs, errors.Wrapf(err, "feed %s", feed))
				a.metrics.UpstreamCall(upstreamName, "feed", metrics.OutcomeError)
				return
			}
			a.metrics.UpstreamCall(upstreamName, "feed", metrics.OutcomeOK)
			merged = append(merged, items...)
		}(feed)
	}
	wg.Wait()

	if failed > 0 && failed == len(a.feeds) {
		return errs
	}
	if errs != nil {
		a.log.Warn("some news feeds failed", zap.Error(errs))
	}

	now := time.Now().UTC()
	items := mergeItems(merged, a.maxItems)

	a.mu.Lock()
	a.snapshot = Snapshot{Items: items, UpdatedAt: &now}
	a.mu.Unlock()

	return nil
}

func (a *Aggregator) fetchFeed(ctx context.Context, feedURL string) ([]Item, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "retryablehttp.NewRequestWithContext")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "a.http.Do")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	items, err := parseFeed(io.LimitReader(resp.Body, maxFeedBytes), feedURL)
	if err != nil {
		return nil, errors.Wrap(err, "parseFeed")
	}
	return items, nil
}

// mergeItems drops duplicates (by link, then by title), sorts newest first and
// keeps at most limit items. Undated items sort last.
func mergeItems(items []Item, limit int) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		linkKey := dedupKey(it)
		titleKey := dedupKey(Item{Title: it.Title})
		if _, ok := seen[linkKey]; ok {
			continue
		}
		if _, ok := seen[titleKey]; ok && it.Title != "" {
			continue
		}
		seen[linkKey] = struct{}{}
		if it.Title != "" {
			seen[titleKey] = struct{}{}
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// retryLogger adapts zap to retryablehttp.LeveledLogger.
type retryLogger struct {
	log *zap.SugaredLogger
}

func (l retryLogger) Error(msg string, kv ...interface{}) { l.log.Errorw(msg, kv...) }
func (l retryLogger) Info(msg string, kv ...interface{})  { l.log.Debugw(msg, kv...) }
func (l retryLogger) Debug(msg string, kv ...interface{}) { l.log.Debugw(msg, kv...) }
func (l retryLogger) Warn(msg string, kv ...interface{})  { l.log.Warnw(msg, kv...) }
