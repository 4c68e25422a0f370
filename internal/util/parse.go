package util

import "strconv"

// ParsePositiveInt parses a string to an integer, returning defaultValue if
// parsing fails or the value is below 1. List endpoints use this for the
// page and limit query parameters.
func ParsePositiveInt(s string, defaultValue int) int {
	val, err := strconv.Atoi(s)
	if err != nil || val < 1 {
		return defaultValue
	}
	return val
}
