package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationToken = regexp.MustCompile(`(\d+)([smhd])`)

var durationUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseDuration sums every <integer><unit> token in s, units s/m/h/d in any order.
// ok is false when s is empty, holds no valid token or sums past the largest
// time.Duration; callers treat that as "no duration supplied".
func ParseDuration(s string) (d time.Duration, ok bool) {
	matches := durationToken.FindAllStringSubmatch(strings.ToLower(s), -1)
	if len(matches) == 0 {
		return 0, false
	}

	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		unit := durationUnits[m[2]]
		if n > math.MaxInt64/int64(unit) {
			return 0, false
		}
		span := time.Duration(n) * unit
		if d > math.MaxInt64-span {
			return 0, false
		}
		d += span
	}
	return d, true
}

// FormatDuration renders d the way moderation logs show durations, e.g. "1h 30m".
func FormatDuration(d time.Duration) string {
	seconds := int64(d / time.Second)
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	case seconds < 86400:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	default:
		return fmt.Sprintf("%dd %dh", seconds/86400, (seconds%86400)/3600)
	}
}
