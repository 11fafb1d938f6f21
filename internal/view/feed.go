package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"
)

// DefaultPollInterval is the Feed refresh period.
const DefaultPollInterval = 10 * time.Second

// ErrFeedRunning is returned by Start when the poller is already running.
var ErrFeedRunning = errors.New("feed poller already running")

// FeedSnapshot is an immutable copy of the Feed state.
type FeedSnapshot struct {
	Status
	Posts []PostItem `json:"posts"`
	// Seq is the sequence number of the refresh that produced Posts.
	Seq uint64 `json:"seq"`
}

// ShowError reports whether the error banner replaces the list.
func (s FeedSnapshot) ShowError() bool {
	return s.Error != "" && len(s.Posts) == 0
}

// ShowSpinner reports whether the loading indicator replaces the list.
func (s FeedSnapshot) ShowSpinner() bool {
	return s.Loading && len(s.Posts) == 0
}

// Feed is the latest posts view. It refreshes on Start and then every poll
// interval until Stop. Responses that arrive after a newer one was applied are
// dropped.
type Feed struct {
	source   PostSource
	images   Images
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	posts     []models.Post
	inflight  int
	err       string
	updatedAt time.Time
	issued    uint64
	applied   uint64
	subs      map[int]func(FeedSnapshot)
	nextSub   int

	// notifyMu orders deliveries; notified is the last Seq delivered.
	notifyMu sync.Mutex
	notified uint64

	cancel context.CancelFunc
	run    uint64
	wg     sync.WaitGroup
}

// NewFeed creates a Feed polling source every interval (DefaultPollInterval
// when zero).
func NewFeed(source PostSource, images Images, interval time.Duration) *Feed {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Feed{
		source:   source,
		images:   images,
		interval: interval,
		now:      time.Now,
		subs:     make(map[int]func(FeedSnapshot)),
	}
}

// Start loads the feed and keeps polling until Stop or until ctx is done.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.cancel != nil {
		f.mu.Unlock()
		return ErrFeedRunning
	}
	ctx, cancel := context.WithCancel(observability.WithView(ctx, "feed"))
	f.cancel = cancel
	f.run++
	run := f.run
	f.wg.Add(1)
	f.mu.Unlock()

	go f.poll(ctx, run)
	return nil
}

func (f *Feed) poll(ctx context.Context, run uint64) {
	defer f.wg.Done()
	defer f.release(run)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.spawnRefresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.spawnRefresh(ctx)
		}
	}
}

// spawnRefresh runs a refresh without holding up the ticker, so a slow
// upstream does not stretch the poll interval.
func (f *Feed) spawnRefresh(ctx context.Context) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		_ = f.Refresh(ctx)
	}()
}

// release marks the poller of run as stopped unless Stop or a later Start
// already took over.
func (f *Feed) release(run uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.run != run || f.cancel == nil {
		return
	}
	f.cancel()
	f.cancel = nil
}

// Stop cancels the poller and every in-flight request, and waits for them to
// finish. Nothing is applied after Stop returns.
func (f *Feed) Stop() {
	f.mu.Lock()
	cancel := f.cancel
	f.cancel = nil
	f.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	f.wg.Wait()
}

// Running reports whether the poller is active.
func (f *Feed) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancel != nil
}

// Refresh fetches the feed once. The result is applied only if no newer
// refresh has been applied in the meantime.
func (f *Feed) Refresh(ctx context.Context) error {
	ctx, span := observability.StartViewSpan(ctx, "feed", "refresh")

	f.mu.Lock()
	f.issued++
	seq := f.issued
	f.inflight++
	f.mu.Unlock()

	posts, err := f.source.FetchPosts(ctx)

	f.mu.Lock()
	f.inflight--
	switch {
	case ctx.Err() != nil:
		f.mu.Unlock()
		observability.FeedPollsTotal.WithLabelValues("canceled").Inc()
		observability.EndSpan(span, nil)
		return ctx.Err()
	case seq < f.applied:
		f.mu.Unlock()
		observability.FeedPollsTotal.WithLabelValues("stale").Inc()
		observability.EndSpan(span, nil)
		return nil
	case err != nil:
		f.err = FeedErrorMessage
		f.mu.Unlock()
		observability.FeedPollsTotal.WithLabelValues("error").Inc()
		observability.GlobalLogger.ErrorContext(ctx, "feed refresh failed", "error", err)
		observability.EndSpan(span, err)
		return err
	}

	sorted := models.ClonePosts(posts)
	SortNewestFirst(sorted)
	f.posts = sorted
	f.err = ""
	f.applied = seq
	f.updatedAt = f.now()

	snap := f.snapshotLocked()
	subs := make([]func(FeedSnapshot), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	observability.FeedPollsTotal.WithLabelValues("applied").Inc()
	observability.EndSpan(span, nil)
	f.notify(snap, subs)
	return nil
}

// notify delivers snap unless a newer snapshot already went out.
func (f *Feed) notify(snap FeedSnapshot, subs []func(FeedSnapshot)) {
	f.notifyMu.Lock()
	defer f.notifyMu.Unlock()
	if snap.Seq <= f.notified {
		return
	}
	f.notified = snap.Seq
	for _, fn := range subs {
		fn(snap)
	}
}

// Snapshot returns the current state.
func (f *Feed) Snapshot() FeedSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Feed) snapshotLocked() FeedSnapshot {
	return FeedSnapshot{
		Status: Status{
			Loading:   f.inflight > 0 || (f.applied == 0 && f.err == ""),
			Error:     f.err,
			UpdatedAt: f.updatedAt,
		},
		Posts: postItems(f.posts, f.images),
		Seq:   f.applied,
	}
}

// Subscribe registers fn to receive a snapshot after every applied refresh,
// in refresh order. fn runs on the refreshing goroutine and must not block. The returned
// function removes the subscription.
func (f *Feed) Subscribe(fn func(FeedSnapshot)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}
