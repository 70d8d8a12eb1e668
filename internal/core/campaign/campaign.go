// Package campaign derives display names from raw UTM campaign strings
package campaign

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Organic labels traffic with no campaign attached
const Organic = "Direto / Orgânico"

// NameGroup is the 1-based bracket group holding the campaign name in the
// structured ad naming scheme
const NameGroup = 7

// FieldAliases are the log columns that may carry the raw campaign, in priority order
var FieldAliases = []string{"utm_campaign", "camping", "campaign_name", "camping name"}

var groupRe = regexp.MustCompile(`\[([^\]]+)\]`)

// ExtractName turns a raw campaign value into its display name
// "[a][b][c][d][e][f][Name+Here]" gives "Name Here"; a value starting with a
// bracket but with fewer groups gives its last group; anything else is returned
// with '+' read as a space
func ExtractName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return Organic
	}
	groups := groupRe.FindAllStringSubmatch(raw, -1)
	switch {
	case len(groups) >= NameGroup:
		return plus(groups[NameGroup-1][1])
	case strings.HasPrefix(raw, "[") && len(groups) > 0:
		return plus(groups[len(groups)-1][1])
	}
	return plus(raw)
}

func plus(s string) string { return strings.ReplaceAll(s, "+", " ") }

// Pick returns the first value that is not blank
func Pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// FromRow picks the raw campaign out of a loosely shaped log row
func FromRow(row map[string]any) string {
	vals := make([]string, 0, len(FieldAliases))
	for _, k := range FieldAliases {
		if s, ok := row[k].(string); ok {
			vals = append(vals, s)
		}
	}
	return Pick(vals...)
}

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)), // accents
			norm.NFC,
			cases.Fold(),
			width.Fold,
		)
	},
}

// Fold is the search key of s: accents stripped, case folded
func Fold(s string) string {
	if s == "" {
		return ""
	}
	tr := foldPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, strings.ToValidUTF8(s, ""))
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.TrimSpace(out)
}

// Matches reports whether name contains query, ignoring case and accents
// An empty query matches everything
func Matches(name, query string) bool {
	q := Fold(query)
	return q == "" || strings.Contains(Fold(name), q)
}
