package format

import (
	"strconv"
	"time"
)

// Duration renders nanoseconds compactly: "850µs", "12ms", "3s", "45m 3s",
// "8h 12m". Negative durations are unknown and render as "-".
func Duration(ns int64) string {
	if ns < 0 {
		return "-"
	}
	d := time.Duration(ns)

	switch {
	case d < time.Microsecond:
		return withSuffix(ns, "ns")
	case d < time.Millisecond:
		return withSuffix(int64(d/time.Microsecond), "µs")
	case d < time.Second:
		return withSuffix(int64(d/time.Millisecond), "ms")
	}

	hours := int64(d / time.Hour)
	minutes := int64(d%time.Hour) / int64(time.Minute)
	seconds := int64(d%time.Minute) / int64(time.Second)

	if hours > 0 {
		if minutes > 0 {
			return withSuffix(hours, "h") + " " + withSuffix(minutes, "m")
		}
		return withSuffix(hours, "h")
	}
	if minutes > 0 {
		if seconds > 0 {
			return withSuffix(minutes, "m") + " " + withSuffix(seconds, "s")
		}
		return withSuffix(minutes, "m")
	}
	return withSuffix(seconds, "s")
}

func withSuffix(value int64, suffix string) string {
	return strconv.FormatInt(value, 10) + suffix
}
