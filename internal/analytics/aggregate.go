// ABOUTME: Pure aggregation over fetched Discord reaction records.
// ABOUTME: Counts, shot-type breakdown, 24h recency window, and derived percentages.

package analytics

import (
	"fmt"
	"math"
	"time"
)

// Record is one row as returned by NocoDB: an opaque field map. The
// aggregator reads a handful of well-known fields defensively; absence is
// never an error.
type Record map[string]any

// Summary holds the raw counts computed over a batch of records.
type Summary struct {
	TotalReactions int            `json:"total_reactions"`
	WithImages     int            `json:"with_images"`
	CinematicCount int            `json:"cinematic_count"`
	AnimeCount     int            `json:"anime_count"`
	WithSrefCodes  int            `json:"with_sref_codes"`
	ShotTypes      map[string]int `json:"shot_types"`
	Recent24h      int            `json:"recent_24h"`
}

// Digest holds the human-oriented rollup derived from a Summary.
type Digest struct {
	Message             string  `json:"message"`
	CinematicPercentage float64 `json:"cinematic_percentage"`
	AnimePercentage     float64 `json:"anime_percentage"`
	SrefCoverage        float64 `json:"sref_coverage"`
}

// Report is the full analytics result returned to callers.
type Report struct {
	Analytics Summary `json:"analytics"`
	Summary   Digest  `json:"summary"`
}

// Aggregate computes a Report over the given records. It is pure and
// deterministic given records and now, and invariant to record order.
// Records with a missing or unparsable timestamp are excluded from the
// recency count without erroring.
func Aggregate(records []Record, now time.Time) Report {
	summary := Summary{
		TotalReactions: len(records),
		ShotTypes:      make(map[string]int),
	}

	cutoff := now.Add(-24 * time.Hour)
	for _, rec := range records {
		if truthy(rec["image_url"]) {
			summary.WithImages++
		}
		if truthy(rec["cinematic"]) {
			summary.CinematicCount++
		}
		if truthy(rec["anime"]) {
			summary.AnimeCount++
		}
		if truthy(rec["sref_code"]) {
			summary.WithSrefCodes++
		}
		if shot, _ := rec["shot_type"].(string); shot != "" {
			summary.ShotTypes[shot]++
		}
		if ts, ok := parseTimestamp(rec["timestamp"]); ok && ts.After(cutoff) {
			summary.Recent24h++
		}
	}

	return Report{
		Analytics: summary,
		Summary: Digest{
			Message: fmt.Sprintf("%d total reactions, %d with images, %d in last 24h",
				summary.TotalReactions, summary.WithImages, summary.Recent24h),
			CinematicPercentage: percentage(summary.CinematicCount, summary.TotalReactions),
			AnimePercentage:     percentage(summary.AnimeCount, summary.TotalReactions),
			SrefCoverage:        percentage(summary.WithSrefCodes, summary.TotalReactions),
		},
	}
}

// percentage returns 100*count/total rounded to one decimal place, and 0
// when total is 0.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

// timestampLayouts are tried in order; a trailing Z is valid RFC 3339 and the
// bare layout covers offset-less values the bot occasionally writes.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// parseTimestamp parses an ISO-8601 instant from a record field. Returns
// false for missing, non-string, or unparsable values.
func parseTimestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// truthy mirrors the loose field semantics of the source data: present
// booleans count when true, strings when non-empty, numbers when non-zero.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}
