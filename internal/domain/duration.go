package domain

import (
	"strconv"
	"strings"
)

// FormatDuration renders seconds as "1d 1h 0m 0s". Leading zero units are
// dropped, but once a larger unit is shown every smaller unit follows it.
func FormatDuration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	d := totalSeconds / 86400
	h := (totalSeconds % 86400) / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60

	parts := make([]string, 0, 4)
	if d > 0 {
		parts = append(parts, strconv.FormatInt(d, 10)+"d")
	}
	if h > 0 || d > 0 {
		parts = append(parts, strconv.FormatInt(h, 10)+"h")
	}
	if m > 0 || h > 0 || d > 0 {
		parts = append(parts, strconv.FormatInt(m, 10)+"m")
	}
	parts = append(parts, strconv.FormatInt(s, 10)+"s")
	return strings.Join(parts, " ")
}
