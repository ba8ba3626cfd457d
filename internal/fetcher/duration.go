package fetcher

import (
	"regexp"
	"strconv"
)

// YouTube reports video durations as ISO 8601 strings, e.g. "PT1H2M3S".
// Live streams and premieres can report "P0D".
var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

var durationUnitSeconds = [...]int64{86400, 3600, 60, 1}

// parseISODuration converts an ISO 8601 duration to whole seconds.
// Absent or malformed values decode to 0.
func parseISODuration(s string) int64 {
	matches := isoDurationPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0
	}

	var seconds int64
	for i, part := range matches[1:] {
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0
		}
		seconds += n * durationUnitSeconds[i]
	}
	return seconds
}
