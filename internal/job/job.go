// Package job defines the Job contract, the JobResult tagged variant,
// and the reference jobs evaluated once per tick by internal/scheduler.
package job

import (
	"context"
	"time"

	"github.com/posaune0423/aw-analyzer/internal/activity"
	"github.com/posaune0423/aw-analyzer/internal/analyzer"
	"github.com/posaune0423/aw-analyzer/internal/notify"
	"github.com/posaune0423/aw-analyzer/internal/state"
	"github.com/posaune0423/aw-analyzer/pkg/logger"
)

// Context carries everything threaded through every job in a tick: the
// tick's fixed clock reading, the shared state store, the notifier, the
// provider/analyzer used to fetch and interpret metrics, and the
// timezone offset jobs need for local-date reasoning. Jobs never
// mutate it; the scheduler owns its lifetime for the duration of one
// tick.
type Context struct {
	Ctx       context.Context
	Now       time.Time
	State     *state.Store
	Notifier  notify.Notifier
	Provider  *activity.Provider
	Analyzer  *analyzer.Analyzer
	Offset    time.Duration
	ServerURL string
	Hostname  string
	Log       *logger.Logger
}

// Job is one evaluated unit of work: a unique id, a predicate, and an
// action. Jobs are constructed once at CLI startup and are read-only
// for the duration of a tick.
type Job interface {
	ID() string
	ShouldRun(jc *Context) (bool, error)
	Run(jc *Context) (Result, error)
}

// Result is a tagged variant: either NoNotify{Reason} or
// Notify{Title, Body, CooldownKey?, CooldownMs?}. Exactly one of the two
// constructors below should be used; IsNotify distinguishes them.
type Result struct {
	notify      bool
	Reason      string
	Title       string
	Body        string
	CooldownKey string
	CooldownMs  int64
}

// IsNotify reports whether this Result is a Notify variant.
func (r Result) IsNotify() bool { return r.notify }

// NoNotify builds a NoNotify{reason} Result.
func NoNotify(reason string) Result {
	return Result{notify: false, Reason: reason}
}

// Notify builds a Notify{title, body} Result with no cooldown.
func Notify(title, body string) Result {
	return Result{notify: true, Title: title, Body: body}
}

// NotifyWithCooldown builds a Notify Result carrying a cooldown key and
// duration in milliseconds.
func NotifyWithCooldown(title, body, cooldownKey string, cooldownMs int64) Result {
	return Result{notify: true, Title: title, Body: body, CooldownKey: cooldownKey, CooldownMs: cooldownMs}
}
