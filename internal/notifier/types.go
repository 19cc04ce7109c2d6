package notifier

import (
	"errors"
	"time"
)

const (
	LogPrefixNotify  = "internal.notifier.Notify"
	LogPrefixWorker  = "internal.notifier.worker"
	LogPrefixConsume = "internal.notifier.Consume"

	ModeDirect = "direct"
	ModeQueue  = "queue"

	DefaultWorkers   = 2
	DefaultQueueSize = 100
	DefaultTimeout   = 30 * time.Second
	DefaultQueueKey  = "ecodrive:handoff"
)

var ErrClosed = errors.New("notifier: dispatcher closed")

// Options configures the Dispatcher. Zero values use the defaults above.
type Options struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}
