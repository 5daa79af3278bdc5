// Package timebucket implements the pure timezone binner: it converts
// raw AFK events into per-day, per-hour active/AFK-second buckets in a
// target timezone expressed as a fixed offset (the offset is a
// parameter, never a process-wide IANA lookup, so the binner is testable
// without touching the system clock's zone database).
package timebucket

import (
	"time"

	"github.com/posaune0423/aw-analyzer/internal/activity"
)

// HourBucket is one of the 24 per-hour slots for a local date.
type HourBucket struct {
	ActiveSeconds float64
	AfkSeconds    float64
}

// DailyBuckets is the 24-slot array for one local date.
type DailyBuckets struct {
	DateKey string
	Hours   [24]HourBucket
}

// BinAfkEvents bins events into the given target local dates under a
// fixed UTC offset. Dates not listed in targetDateKeys receive no
// contributions; dates listed but with no contributing events still
// appear in the output as 24 zero buckets, in targetDateKeys order.
func BinAfkEvents(events []activity.AfkEvent, targetDateKeys []string, offset time.Duration) []DailyBuckets {
	index := make(map[string]int, len(targetDateKeys))
	out := make([]DailyBuckets, len(targetDateKeys))
	for i, key := range targetDateKeys {
		out[i] = DailyBuckets{DateKey: key}
		index[key] = i
	}

	for _, e := range events {
		if e.Status != activity.StatusAfk && e.Status != activity.StatusNotAfk {
			continue
		}
		if e.Duration <= 0 {
			continue
		}
		spanStart := e.Timestamp.Add(offset)
		spanEnd := spanStart.Add(time.Duration(e.Duration * float64(time.Second)))
		distributeSpan(out, index, spanStart, spanEnd, e.Status)
	}

	return out
}

// distributeSpan clips [start, end) into successive (date, hour) bins,
// incrementing each bin's overlap in seconds. Crossing an hour boundary
// splits the contribution proportionally across the bins it touches.
func distributeSpan(out []DailyBuckets, index map[string]int, start, end time.Time, status activity.AfkStatus) {
	cursor := start
	for cursor.Before(end) {
		hourStart := time.Date(cursor.Year(), cursor.Month(), cursor.Day(), cursor.Hour(), 0, 0, 0, cursor.Location())
		hourEnd := hourStart.Add(time.Hour)

		segmentEnd := end
		if hourEnd.Before(segmentEnd) {
			segmentEnd = hourEnd
		}

		overlap := segmentEnd.Sub(cursor).Seconds()
		dateKey := cursor.Format("2006-01-02")
		if idx, ok := index[dateKey]; ok && overlap > 0 {
			bucket := &out[idx].Hours[cursor.Hour()]
			switch status {
			case activity.StatusNotAfk:
				bucket.ActiveSeconds += overlap
			case activity.StatusAfk:
				bucket.AfkSeconds += overlap
			}
		}

		cursor = segmentEnd
	}
}

// BuildDateKeys returns the last `days` local dates ending yesterday
// (now is excluded) under the given offset, oldest first. days is
// clamped to [1, 31].
func BuildDateKeys(now time.Time, days int, offset time.Duration) []string {
	if days < 1 {
		days = 1
	}
	if days > 31 {
		days = 31
	}

	local := now.Add(offset)
	yesterday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	keys := make([]string, days)
	for i := 0; i < days; i++ {
		d := yesterday.AddDate(0, 0, -(days - 1 - i))
		keys[i] = d.Format("2006-01-02")
	}
	return keys
}
