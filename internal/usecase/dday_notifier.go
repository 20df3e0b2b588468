package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sglre6355/notion-dday/internal/domain"
)

// TodaySchedule lists the entries due on the current day.
type TodaySchedule interface {
	TodaysEntries(ctx context.Context) ([]domain.Entry, error)
}

// ChannelMessenger posts plain text messages to a chat channel.
type ChannelMessenger interface {
	ResolveChannel(ctx context.Context, channelID string) error
	SendMessage(ctx context.Context, channelID, content string) error
}

// DeliveryRecorder stores an audit record of a posted message.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, delivery domain.Delivery) error
}

// NotifierErrorStage indicates which step of a check cycle failed.
type NotifierErrorStage string

const (
	// NotifierErrorStageResolve marks failures while looking up the notification channel.
	NotifierErrorStageResolve NotifierErrorStage = "resolve"
	// NotifierErrorStageFetch marks failures while reading today's entries.
	NotifierErrorStageFetch NotifierErrorStage = "fetch"
	// NotifierErrorStageDispatch marks failures while posting to the channel.
	NotifierErrorStageDispatch NotifierErrorStage = "dispatch"
	// NotifierErrorStageRecord marks failures while writing the delivery log.
	NotifierErrorStageRecord NotifierErrorStage = "record"
)

// NotifierErrorHandler is invoked whenever a check cycle hits an error.
type NotifierErrorHandler func(channelID string, stage NotifierErrorStage, err error)

// DDayNotifier periodically posts today's entries to a single channel.
type DDayNotifier struct {
	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}

	schedule  TodaySchedule
	messenger ChannelMessenger
	channelID string

	nowFn    func() time.Time
	interval time.Duration
	onError  NotifierErrorHandler
	recorder DeliveryRecorder
}

// DDayNotifierOption configures behavioural aspects of the notifier.
type DDayNotifierOption func(*DDayNotifier)

// WithNotifierClock overrides the clock used to timestamp deliveries.
func WithNotifierClock(nowFn func() time.Time) DDayNotifierOption {
	return func(n *DDayNotifier) {
		if nowFn != nil {
			n.nowFn = nowFn
		}
	}
}

// WithNotifierInterval defines the cadence between checks.
func WithNotifierInterval(interval time.Duration) DDayNotifierOption {
	return func(n *DDayNotifier) {
		if interval > 0 {
			n.interval = interval
		}
	}
}

// WithNotifierErrorHandler registers the callback used when a cycle fails.
func WithNotifierErrorHandler(handler NotifierErrorHandler) DDayNotifierOption {
	return func(n *DDayNotifier) {
		if handler != nil {
			n.onError = handler
		}
	}
}

// WithDeliveryRecorder logs every posted notice to recorder.
func WithDeliveryRecorder(recorder DeliveryRecorder) DDayNotifierOption {
	return func(n *DDayNotifier) {
		if recorder != nil {
			n.recorder = recorder
		}
	}
}

// NewDDayNotifier builds a notifier that posts entries from schedule into channelID.
func NewDDayNotifier(
	schedule TodaySchedule,
	messenger ChannelMessenger,
	channelID string,
	opts ...DDayNotifierOption,
) (*DDayNotifier, error) {
	if schedule == nil {
		return nil, fmt.Errorf("notifier missing schedule dependency")
	}
	if messenger == nil {
		return nil, fmt.Errorf("notifier missing messenger dependency")
	}
	if channelID == "" {
		return nil, fmt.Errorf("notifier channel id cannot be empty")
	}

	notifier := &DDayNotifier{
		schedule:  schedule,
		messenger: messenger,
		channelID: channelID,
		nowFn:     time.Now,
		interval:  24 * time.Hour,
		onError:   func(string, NotifierErrorStage, error) {},
	}

	for _, opt := range opts {
		opt(notifier)
	}

	return notifier, nil
}

// Start launches the check loop: one cycle right away, then one per interval.
// Only the first call has an effect; it reports whether the loop was started.
func (n *DDayNotifier) Start() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started || n.stopped {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.started = true
	n.cancel = cancel
	n.done = make(chan struct{})

	go n.loop(ctx, n.done)
	return true
}

// Shutdown stops the loop and waits for the running cycle to return.
// A stopped notifier cannot be started again.
func (n *DDayNotifier) Shutdown() {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}
	n.stopped = true
	cancel, done := n.cancel, n.done
	n.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (n *DDayNotifier) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	_ = n.RunOnce(ctx)

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = n.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single check cycle and returns the first error it met.
// Errors are also reported to the error handler; none are fatal.
func (n *DDayNotifier) RunOnce(ctx context.Context) error {
	if err := n.messenger.ResolveChannel(ctx, n.channelID); err != nil {
		err = fmt.Errorf("failed to resolve channel: %w", err)
		n.onError(n.channelID, NotifierErrorStageResolve, err)
		return err
	}

	entries, err := n.schedule.TodaysEntries(ctx)
	if err != nil {
		err = fmt.Errorf("failed to fetch today's entries: %w", err)
		n.fail(ctx, NotifierErrorStageFetch, err)
		return err
	}

	for _, entry := range entries {
		if err := n.messenger.SendMessage(ctx, n.channelID, FormatDDayNotice(entry.Title)); err != nil {
			err = fmt.Errorf("failed to send notice for %q: %w", entry.Title, err)
			n.fail(ctx, NotifierErrorStageDispatch, err)
			return err
		}
		n.record(ctx, entry)
	}

	return nil
}

func (n *DDayNotifier) fail(ctx context.Context, stage NotifierErrorStage, err error) {
	n.onError(n.channelID, stage, err)

	if sendErr := n.messenger.SendMessage(ctx, n.channelID, ScheduledFailureMessage); sendErr != nil {
		n.onError(
			n.channelID,
			NotifierErrorStageDispatch,
			fmt.Errorf("failed to send failure notice: %w", sendErr),
		)
	}
}

func (n *DDayNotifier) record(ctx context.Context, entry domain.Entry) {
	if n.recorder == nil {
		return
	}

	delivery := domain.Delivery{
		ChannelID: n.channelID,
		Title:     entry.Title,
		Kind:      domain.DeliveryKindScheduled,
		SentAt:    n.nowFn(),
	}
	if entry.Date != nil {
		delivery.EntryDate = *entry.Date
	}

	if err := n.recorder.RecordDelivery(ctx, delivery); err != nil {
		n.onError(n.channelID, NotifierErrorStageRecord, fmt.Errorf("failed to record delivery: %w", err))
	}
}
