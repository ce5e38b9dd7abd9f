// Package events records user interaction events from the web views, such
// as clicks on the "link GitHub" call to action.
//
// Backends implement [Logger]. [Multi] fans an event out to several
// backends and reports it to the observability event hooks once.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stacknotes/pkg/observability"
)

// Event is one logged interaction.
type Event struct {
	ID    string            `json:"id"`
	Name  string            `json:"event"`
	Page  string            `json:"page"`
	Props map[string]string `json:"props,omitempty"`
	Time  time.Time         `json:"time"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(name, page string, props map[string]string) Event {
	return Event{ID: uuid.NewString(), Name: name, Page: page, Props: props, Time: time.Now().UTC()}
}

// Logger records events tied to the page they happened on.
type Logger interface {
	LogEventForPage(ctx context.Context, event, page string, props map[string]string) error
}

// Nop discards events.
type Nop struct{}

func (Nop) LogEventForPage(context.Context, string, string, map[string]string) error { return nil }

// LogLogger writes events as structured log lines.
type LogLogger struct {
	Logger *log.Logger
}

func (l LogLogger) LogEventForPage(_ context.Context, event, page string, props map[string]string) error {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	kv := []any{"event", event, "page", page}
	for k, v := range props {
		kv = append(kv, k, v)
	}
	logger.Info("ui event", kv...)
	return nil
}

type multi []Logger

// Multi returns a Logger that reports each event to the observability
// hooks and then to every backend in order. All backends are tried; their
// errors are joined.
func Multi(backends ...Logger) Logger {
	return multi(backends)
}

func (m multi) LogEventForPage(ctx context.Context, event, page string, props map[string]string) error {
	observability.Events().OnEvent(ctx, event, page)
	var errs []error
	for _, b := range m {
		if err := b.LogEventForPage(ctx, event, page, props); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
