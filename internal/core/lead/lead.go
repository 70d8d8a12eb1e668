// Package lead defines the lead record seen by the metrics engine and the
// adapter that decodes it from loosely shaped source rows
package lead

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one lead as the engine sees it
// A zero CreatedAt means the source timestamp was missing or unparsable and the
// record cannot be placed in time. An empty AgentID means no agent is attached
type Record struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	AgentID          string    `json:"agent_id,omitempty"`
	InteractionCount int64     `json:"interaction_count"`
}

// Placeable reports whether the record has a usable timestamp
func (r Record) Placeable() bool { return !r.CreatedAt.IsZero() }

// HasAgent reports whether an agent is attached
func (r Record) HasAgent() bool { return r.AgentID != "" }

// Mapping lists the accepted column names for each field, tried in order
type Mapping struct {
	ID               []string
	CreatedAt        []string
	AgentID          []string
	InteractionCount []string
}

// DefaultMapping covers both historical column spellings
var DefaultMapping = Mapping{
	ID:               []string{"id"},
	CreatedAt:        []string{"created_at"},
	AgentID:          []string{"agent_id", "id_agent"},
	InteractionCount: []string{"contador_interacoes", "interaction_count"},
}

// Merge returns m with empty alias lists filled from DefaultMapping
func (m Mapping) Merge() Mapping {
	if len(m.ID) == 0 {
		m.ID = DefaultMapping.ID
	}
	if len(m.CreatedAt) == 0 {
		m.CreatedAt = DefaultMapping.CreatedAt
	}
	if len(m.AgentID) == 0 {
		m.AgentID = DefaultMapping.AgentID
	}
	if len(m.InteractionCount) == 0 {
		m.InteractionCount = DefaultMapping.InteractionCount
	}
	return m
}

// Decode builds a Record from a raw row. It never fails: bad timestamps give a
// zero CreatedAt, missing or bad counts give 0
func (m Mapping) Decode(raw map[string]any) Record {
	m = m.Merge()
	return Record{
		ID:               toString(pick(raw, m.ID)),
		CreatedAt:        ParseTime(pick(raw, m.CreatedAt)),
		AgentID:          strings.TrimSpace(toString(pick(raw, m.AgentID))),
		InteractionCount: toCount(pick(raw, m.InteractionCount)),
	}
}

// DecodeAll decodes every row with m
func (m Mapping) DecodeAll(rows []map[string]any) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.Decode(r))
	}
	return out
}

// pick returns the first non-nil value under any of keys
func pick(raw map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04-07",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts time values, pointers to them and the common text layouts
// drivers and JSON payloads produce. Anything else gives the zero time
func ParseTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case *time.Time:
		if x != nil {
			return *x
		}
	case string:
		return parseTimeString(x)
	case []byte:
		return parseTimeString(string(x))
	}
	return time.Time{}
}

func parseTimeString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toCount converts driver and JSON number shapes to a non-negative count
func toCount(v any) int64 {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return math.MaxInt64
		}
		n = int64(x)
	case *int64:
		if x != nil {
			n = *x
		}
	case *int32:
		if x != nil {
			n = int64(*x)
		}
	case float32:
		n = floatCount(float64(x))
	case float64:
		n = floatCount(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			n = i
		} else if f, err := x.Float64(); err == nil {
			n = floatCount(f)
		}
	case string:
		n = stringCount(x)
	case []byte:
		n = stringCount(string(x))
	}
	if n < 0 {
		return 0
	}
	return n
}

func floatCount(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

func stringCount(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return floatCount(f)
	}
	return 0
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	case float64:
		// jsonb numbers arrive as float64; keep integral ids out of exponent form
		return strconv.FormatFloat(x, 'f', -1, 64)
	case [16]byte:
		// pgx scans uuid columns into this shape when the destination is any
		return uuid.UUID(x).String()
	}
	return fmt.Sprint(v)
}
