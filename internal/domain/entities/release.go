package entities

import (
	"strconv"
	"strings"
)

// ReleaseRecord is a single release as listed by the release history service
type ReleaseRecord struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Milestone returns the leading version component, e.g. 120 for "120.0.6099.129"
func (r ReleaseRecord) Milestone() (int, bool) {
	head, _, _ := strings.Cut(r.Version, ".")
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// CompareVersions compares two dotted version strings component by component.
// Returns: 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Missing components count as zero, so "120.0" equals "120.0.0.0".
func CompareVersions(v1, v2 string) int {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	maxLen := max(len(parts1), len(parts2))
	for i := 0; i < maxLen; i++ {
		num1 := versionComponent(parts1, i)
		num2 := versionComponent(parts2, i)

		if num1 > num2 {
			return 1
		} else if num1 < num2 {
			return -1
		}
	}

	return 0
}

// versionComponent parses the leading digits of parts[i] (so "1rc1" -> 1)
func versionComponent(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}

	end := 0
	for end < len(parts[i]) && parts[i][end] >= '0' && parts[i][end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(parts[i][:end])
	if err != nil {
		return 0
	}
	return n
}
