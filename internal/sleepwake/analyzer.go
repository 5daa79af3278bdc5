// Package sleepwake implements the pure sleep/wake analyzer: it derives
// a mean wake/sleep minute-of-day from long AFK runs, independent of any
// process-wide timezone.
package sleepwake

import (
	"time"

	"github.com/posaune0423/aw-analyzer/internal/activity"
)

// SleepMin is the minimum duration (seconds) of an AFK span for it to
// count as a "long AFK run", a sleep candidate.
const SleepMin = 3 * 60 * 60

// DailyRecord is one row per target date, with wake/sleep possibly unset.
type DailyRecord struct {
	DateKey      string
	WakeMinutes  *int
	SleepMinutes *int
}

// Result is the output of Analyze: the per-day records plus the averages
// across days that have a value (days without one are omitted from the
// divisor).
type Result struct {
	AvgWakeMinutes  *float64
	AvgSleepMinutes *float64
	Records         []DailyRecord
}

// Analyze considers only AFK events with status==afk and duration >=
// SleepMin. For each such event's span [ts, ts+d), the local date of ts
// records a sleep-minute (earliest wins on ties across multiple events
// landing on the same date) and the local date of ts+d records a
// wake-minute (earliest wins).
func Analyze(events []activity.AfkEvent, targetDateKeys []string, offset time.Duration) Result {
	index := make(map[string]int, len(targetDateKeys))
	records := make([]DailyRecord, len(targetDateKeys))
	for i, key := range targetDateKeys {
		records[i] = DailyRecord{DateKey: key}
		index[key] = i
	}

	for _, e := range events {
		if e.Status != activity.StatusAfk || e.Duration < SleepMin {
			continue
		}

		start := e.Timestamp.Add(offset)
		end := start.Add(time.Duration(e.Duration * float64(time.Second)))

		sleepKey := start.Format("2006-01-02")
		if idx, ok := index[sleepKey]; ok {
			minute := minuteOfDay(start)
			if records[idx].SleepMinutes == nil || minute < *records[idx].SleepMinutes {
				records[idx].SleepMinutes = &minute
			}
		}

		wakeKey := end.Format("2006-01-02")
		if idx, ok := index[wakeKey]; ok {
			minute := minuteOfDay(end)
			if records[idx].WakeMinutes == nil || minute < *records[idx].WakeMinutes {
				records[idx].WakeMinutes = &minute
			}
		}
	}

	return Result{
		AvgWakeMinutes:  average(records, func(r DailyRecord) *int { return r.WakeMinutes }),
		AvgSleepMinutes: average(records, func(r DailyRecord) *int { return r.SleepMinutes }),
		Records:         records,
	}
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func average(records []DailyRecord, field func(DailyRecord) *int) *float64 {
	var sum, count int
	for _, r := range records {
		if v := field(r); v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}
