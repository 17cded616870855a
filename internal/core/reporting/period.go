package reporting

import (
	"fmt"
	"time"
)

// DefaultPeriod is what an absent or unrecognized period token resolves to.
// Silent defaulting is deliberate: the dashboard keeps rendering when a
// client sends a stray query parameter, at the cost of masking typos.
const DefaultPeriod = "30d"

// Range is a resolved reporting window. Start and End are ISO-8601 calendar
// dates, inclusive on both ends; End is always "today" at resolution time.
type Range struct {
	Period string
	Start  string
	End    string
}

// periodDays maps recognized period tokens to their window length.
var periodDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
}

// Resolve maps a period token to a concrete date range anchored at today.
// Unrecognized tokens behave exactly like "30d".
func Resolve(period string, today time.Time) Range {
	days, ok := periodDays[period]
	if !ok {
		period = DefaultPeriod
		days = periodDays[DefaultPeriod]
	}

	end := today
	start := today.AddDate(0, 0, -days)

	return Range{
		Period: period,
		Start:  start.Format("2006-01-02"),
		End:    end.Format("2006-01-02"),
	}
}

// ResolveNow resolves a period token against the wall clock.
func ResolveNow(period string) Range {
	return Resolve(period, time.Now())
}

// String renders the range the way the debug side-channel reports it.
func (r Range) String() string {
	return fmt.Sprintf("%s to %s", r.Start, r.End)
}

// Bucket is the time-grouping unit rows collapse into before aggregation.
type Bucket int

const (
	Daily Bucket = iota
	Weekly
	Monthly
)

func (b Bucket) String() string {
	switch b {
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return "daily"
	}
}

// BucketFor selects the aggregation granularity for a period token. Longer
// windows use coarser buckets so a chart never receives more than roughly
// 7-30 points.
func BucketFor(period string) Bucket {
	switch period {
	case "90d":
		return Weekly
	case "1y":
		return Monthly
	default:
		return Daily
	}
}

// SQLExpr returns the SQLite expression that maps a date column to its
// bucket key. col is always a compile-time column reference from a query
// template, never request input. The weekly expression rewinds to the
// Monday of the ISO week; the monthly one truncates to the first of the
// month. Chart x-axes depend on these keys being stable across calls.
func (b Bucket) SQLExpr(col string) string {
	switch b {
	case Weekly:
		return fmt.Sprintf("date(%s, '-' || ((strftime('%%w', %s) + 6) %% 7) || ' days')", col, col)
	case Monthly:
		return fmt.Sprintf("date(%s, 'start of month')", col)
	default:
		return fmt.Sprintf("date(%s)", col)
	}
}

// Key computes the bucket key for a date in Go, matching SQLExpr bucket for
// bucket. Used where rows are already in memory and by tests.
func (b Bucket) Key(date time.Time) time.Time {
	switch b {
	case Weekly:
		// Monday of the ISO week containing date.
		offset := (int(date.Weekday()) + 6) % 7
		return date.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	default:
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	}
}

// FallbackPoints is how many rows or buckets a trailing-window fallback
// fetches for a period token: the bucket count the primary query would have
// produced (7 or 30 daily points, 13 ISO weeks, 12 months).
func FallbackPoints(period string) int {
	switch period {
	case "7d":
		return 7
	case "90d":
		return 13
	case "1y":
		return 12
	default:
		return 30
	}
}

// Debug is the aggregation side-channel attached to report responses so a
// consumer can tell real current data from substituted fallback data.
type Debug struct {
	Period       string `json:"period"`
	DateRange    string `json:"date_range"`
	Aggregation  string `json:"aggregation,omitempty"`
	UsedFallback bool   `json:"used_fallback"`
	FallbackDate string `json:"fallback_date,omitempty"`
	StagesCount  int    `json:"stages_count,omitempty"`
}

// NewDebug builds the debug record for a resolved range.
func NewDebug(r Range) Debug {
	return Debug{Period: r.Period, DateRange: r.String()}
}
