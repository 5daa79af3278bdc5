// Package scheduler runs the ordered job list once per external tick:
// evaluate shouldRun, run, gate on cooldown, notify, record state. It
// owns no cron loop of its own; each call to RunTick corresponds to one
// externally-invoked tick.
package scheduler

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/posaune0423/aw-analyzer/internal/job"
)

// TickResult is the {executed, notified, skipped} accounting for one
// tick, in job order.
type TickResult struct {
	Executed []string
	Notified []string
	Skipped  []string
}

// Error is the fatal error a tick aborts with: the first provider or
// notifier failure, tagged with the job that caused it.
type Error struct {
	JobID string
	Stage string // "run" or "notify"
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s_error{jobId=%s}: %v", e.Stage, e.JobID, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// RunTick evaluates jobs in order against jc, dispatching at-most-one
// notification per job, subject to cooldown. The first run or notifier
// failure aborts the tick; shouldRun failures are recorded as skipped
// and do not abort.
func RunTick(jc *job.Context, jobs []job.Job) (TickResult, error) {
	runID := uuid.NewString()
	log := jc.Log.ForRun(runID, "tick")

	result := TickResult{
		Executed: []string{},
		Notified: []string{},
		Skipped:  []string{},
	}

	for _, j := range jobs {
		jobLog := log.ForJob(j.ID())

		ok, err := j.ShouldRun(jc)
		if err != nil {
			jobLog.WithError(err).Warn("shouldRun failed, skipping job")
			result.Skipped = append(result.Skipped, j.ID())
			continue
		}
		if !ok {
			result.Skipped = append(result.Skipped, j.ID())
			continue
		}

		jobResult, err := j.Run(jc)
		if err != nil {
			return result, &Error{JobID: j.ID(), Stage: "run", Cause: err}
		}
		result.Executed = append(result.Executed, j.ID())

		if !jobResult.IsNotify() {
			continue
		}

		if jobResult.CooldownKey != "" && jobResult.CooldownMs > 0 {
			if withinCooldown(jc, jobResult.CooldownKey, jobResult.CooldownMs) {
				continue
			}
		}

		if err := jc.Notifier.Notify(jc.Ctx, jobResult.Title, jobResult.Body); err != nil {
			return result, &Error{JobID: j.ID(), Stage: "notify", Cause: err}
		}
		result.Notified = append(result.Notified, j.ID())

		if jobResult.CooldownKey != "" {
			if err := jc.State.SetTime(jobResult.CooldownKey, jc.Now.UnixMilli()); err != nil {
				jobLog.WithError(err).Warn("failed to persist cooldown timestamp")
			}
		}
	}

	return result, nil
}

// withinCooldown reports whether now - lastTs < cooldownMs. A missing
// or unreadable timestamp is treated as "no prior notification" and
// fails open. state.GetTime itself already normalizes a missing or
// corrupt value to (0, false), so the fail-open behavior falls out of
// that rather than a separate error branch here.
func withinCooldown(jc *job.Context, cooldownKey string, cooldownMs int64) bool {
	lastTs, ok := jc.State.GetTime(cooldownKey)
	if !ok {
		return false
	}
	elapsed := jc.Now.UnixMilli() - lastTs
	return elapsed < cooldownMs
}
