package inventory

import (
	"strings"
	"time"

	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// Status is the derived liveness of a machine.
type Status string

const (
	StatusOnline  Status = "Online"
	StatusOffline Status = "Offline"
)

// OfflineAfter is how long a machine may go without pinging before it is
// reported offline.
const OfflineAfter = 1440 * time.Minute

const neverPinged = "never"

// pingLayouts are the ISO-8601 shapes the fleet API has been seen to emit,
// after a trailing "Z" has been rewritten to "+00:00".
var pingLayouts = buildPingLayouts()

func buildPingLayouts() []string {
	dates := []string{"2006-01-02", "20060102"}
	times := []string{"15:04:05", "15:04", "15", "150405"}
	zones := []string{"", "-07:00", "-0700", "-07"}

	var layouts []string
	for _, d := range dates {
		layouts = append(layouts, d)
		for _, sep := range []string{"T", " "} {
			for _, t := range times {
				for _, z := range zones {
					layouts = append(layouts, d+sep+t+z)
				}
			}
		}
	}
	return layouts
}

// StatusOf derives the status of m at now.
func StatusOf(m models.Machine, now time.Time) Status {
	return StatusAt(m.LastPingTime, now)
}

// StatusAt derives a status from a last-ping timestamp.
//
// Missing and "never" timestamps are Offline. A timestamp that is present
// but cannot be parsed is reported Online; downstream consumers rely on that
// asymmetry, so it is kept. Zones are discarded on both sides without
// conversion, matching how the fleet API reports wall-clock ping times.
func StatusAt(lastPing string, now time.Time) Status {
	if lastPing == "" || strings.Contains(strings.ToLower(lastPing), neverPinged) {
		return StatusOffline
	}

	ping, ok := parsePingTime(lastPing)
	if !ok {
		return StatusOnline
	}

	if wallClock(now).Sub(wallClock(ping)) > OfflineAfter {
		return StatusOffline
	}
	return StatusOnline
}

func parsePingTime(s string) (time.Time, bool) {
	s = strings.ReplaceAll(s, "Z", "+00:00")
	for _, layout := range pingLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// wallClock drops the zone of t while keeping its clock reading.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
