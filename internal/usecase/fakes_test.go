package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sglre6355/notion-dday/internal/domain"
)

type fakeSource struct {
	mu      sync.Mutex
	entries []domain.Entry
	err     error
	calls   int
}

func (f *fakeSource) FetchAllEntries(context.Context) ([]domain.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.entries, f.err
}

type sentMessage struct {
	channelID string
	content   string
}

type fakeMessenger struct {
	mu           sync.Mutex
	resolveErr   error
	sendErr      func(content string) error
	resolveCalls int
	sent         []sentMessage
}

func (f *fakeMessenger) ResolveChannel(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveCalls++
	return f.resolveErr
}

func (f *fakeMessenger) SendMessage(_ context.Context, channelID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		if err := f.sendErr(content); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: content})
	return nil
}

func (f *fakeMessenger) contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, msg := range f.sent {
		out = append(out, msg.content)
	}
	return out
}

func (f *fakeMessenger) resolves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolveCalls
}

type fakeRecorder struct {
	mu         sync.Mutex
	err        error
	deliveries []domain.Delivery
}

func (f *fakeRecorder) RecordDelivery(_ context.Context, delivery domain.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, delivery)
	return f.err
}

type stageError struct {
	stage NotifierErrorStage
	err   error
}

type errorLog struct {
	mu     sync.Mutex
	errors []stageError
}

func (l *errorLog) handle(_ string, stage NotifierErrorStage, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, stageError{stage: stage, err: err})
}

func (l *errorLog) stages() []NotifierErrorStage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]NotifierErrorStage, 0, len(l.errors))
	for _, e := range l.errors {
		out = append(out, e.stage)
	}
	return out
}

var fixedNow = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func dated(title string, day int) domain.Entry {
	date := time.Date(2026, time.October, day, 0, 0, 0, 0, time.UTC)
	return domain.Entry{Date: &date, Title: title}
}

func undated(title string) domain.Entry {
	return domain.Entry{Title: title}
}
