package services

import (
	"math"
	"strings"
)

// CalculateMatchingPercentage scores how much of a student's project stack
// an adviser covers: the share of stack items (case-insensitive) found in
// the adviser's expertise, rounded to a whole percent.
func CalculateMatchingPercentage(studentStack, expertise []string) int {
	if len(studentStack) == 0 || len(expertise) == 0 {
		return 0
	}

	known := make(map[string]struct{}, len(expertise))
	for _, e := range expertise {
		known[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	matched := 0
	for _, s := range studentStack {
		if _, ok := known[strings.ToLower(strings.TrimSpace(s))]; ok {
			matched++
		}
	}
	return int(math.Round(float64(matched) / float64(len(studentStack)) * 100))
}
