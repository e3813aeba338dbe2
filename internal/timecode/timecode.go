// Package timecode converts split log time strings to seconds and back.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// packedHoursLimit is the largest hour value accepted in h:m:s form. Some log
// writers emit minutes:seconds:millis triples for long runs; those show up as
// an hour component above this limit.
// TODO: collect more long-run samples to see whether other packed layouts exist.
const packedHoursLimit = 10

// Parse converts "m:s" or "h:m:s" (':' or ';' separated) into seconds.
// It returns ok=false for empty or malformed input.
func Parse(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	parts := strings.FieldsFunc(text, func(r rune) bool { return r == ':' || r == ';' })
	if strings.Count(text, ":")+strings.Count(text, ";") != len(parts)-1 {
		return 0, false
	}
	nums := make([]float64, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || n < 0 || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, false
		}
		nums[i] = n
	}
	switch len(nums) {
	case 2:
		return nums[0]*60 + nums[1], true
	case 3:
		if nums[0] > packedHoursLimit {
			return nums[0]*60 + nums[1], true
		}
		return nums[0]*3600 + nums[1]*60 + nums[2], true
	default:
		return 0, false
	}
}

// Format renders seconds as m:ss below one hour and h:mm:ss otherwise.
// Fractional seconds are truncated.
func Format(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "N/A"
	}
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%d:%02d", sign, m, s)
}

// FormatOptional renders a possibly missing value, "N/A" when absent.
func FormatOptional(seconds float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return Format(seconds)
}
