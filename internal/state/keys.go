package state

import "fmt"

// CooldownKey builds the reserved "cooldown:<jobId>" state key.
func CooldownKey(jobID string) string {
	return fmt.Sprintf("cooldown:%s", jobID)
}

// DailyMarkerKey builds the reserved "daily:<jobId>:<YYYY-MM-DD>" state key.
func DailyMarkerKey(jobID, dateKey string) string {
	return fmt.Sprintf("daily:%s:%s", jobID, dateKey)
}
