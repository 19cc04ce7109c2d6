package notifier

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"

	"ecodrive-query-api/internal/metrics"
	pkgLog "ecodrive-query-api/pkg/log"
)

type job struct {
	conversationID string
	traceID        string
}

// Dispatcher queues notifications in a bounded channel drained by worker goroutines.
type Dispatcher struct {
	sender  Sender
	opts    Options
	queue   chan job
	wg      *conc.WaitGroup
	metrics *metrics.Metrics
	l       pkgLog.Logger

	mu     sync.RWMutex
	closed bool
}

var _ Notifier = (*Dispatcher)(nil)

// NewDispatcher starts the workers immediately. Call Close to drain them.
func NewDispatcher(sender Sender, opts Options, m *metrics.Metrics, l pkgLog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	d := &Dispatcher{
		sender:  sender,
		opts:    opts,
		queue:   make(chan job, opts.QueueSize),
		wg:      conc.NewWaitGroup(),
		metrics: m,
		l:       l,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Go(d.work)
	}
	return d
}

// Notify enqueues conversationID. A full queue or a closed dispatcher drops it with a warning.
func (d *Dispatcher) Notify(ctx context.Context, conversationID string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.metrics.Notification(metrics.NotificationDropped)
		d.l.Warnf(ctx, "%s: %v, dropping notification for %s", LogPrefixNotify, ErrClosed, conversationID)
		return
	}

	select {
	case d.queue <- job{conversationID: conversationID, traceID: pkgLog.TraceID(ctx)}:
		d.metrics.Notification(metrics.NotificationQueued)
	default:
		d.metrics.Notification(metrics.NotificationDropped)
		d.metrics.UpstreamFailure(metrics.StepNotify)
		d.l.Warnf(ctx, "%s: queue full, dropping notification for %s", LogPrefixNotify, conversationID)
	}
}

func (d *Dispatcher) work() {
	for j := range d.queue {
		d.send(j)
	}
}

// send runs detached from the request context, which is usually gone by now.
func (d *Dispatcher) send(j job) {
	ctx, cancel := context.WithTimeout(pkgLog.WithTraceID(context.Background(), j.traceID), d.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.metrics.Notification(metrics.NotificationFailed)
			d.l.Errorf(ctx, "%s: sender panicked for %s: %v", LogPrefixWorker, j.conversationID, r)
		}
	}()

	if err := d.sender.Send(ctx, j.conversationID); err != nil {
		d.metrics.Notification(metrics.NotificationFailed)
		d.metrics.UpstreamFailure(metrics.StepNotify)
		d.l.Errorf(ctx, "%s: notify %s failed: %v", LogPrefixWorker, j.conversationID, err)
		return
	}

	d.metrics.Notification(metrics.NotificationSent)
	d.l.Infof(ctx, "%s: notified hand-off for %s", LogPrefixWorker, j.conversationID)
}

// Close stops accepting notifications and waits for queued ones until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
