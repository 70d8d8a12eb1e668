// Package classify decides whether a lead counts as connected
package classify

import "fmt"

// DefaultThreshold is the interaction count a lead must exceed to be connected
const DefaultThreshold int64 = 3

// IsConnected reports count > threshold. A lead exactly at the threshold is cold
func IsConnected(count, threshold int64) bool { return count > threshold }

// Status filters leads by their classification
type Status string

const (
	StatusAll       Status = "all"
	StatusConnected Status = "connected"
	StatusCold      Status = "cold"
)

// ParseStatus accepts an empty value as StatusAll
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusConnected, StatusCold:
		return Status(s), nil
	}
	return "", fmt.Errorf("classify: unknown status %q", s)
}

// Match reports whether a lead with count belongs to st under threshold
func (st Status) Match(count, threshold int64) bool {
	switch st {
	case StatusConnected:
		return IsConnected(count, threshold)
	case StatusCold:
		return !IsConnected(count, threshold)
	}
	return true
}
