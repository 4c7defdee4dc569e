package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rimu-cli/rimu/internal/audit"
	rerrors "github.com/rimu-cli/rimu/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Operations filters entries by operation kinds (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered history entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the operation history.
//
// Returns ErrNoLogEntries if no history exists and
// ErrInvalidDateFormat if a date filter does not parse.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	_ = ctx

	entries, err := audit.ReadEntries()
	if err != nil {
		return nil, fmt.Errorf("reading operation history: %w", err)
	}
	if len(entries) == 0 {
		return nil, rerrors.ErrNoLogEntries
	}

	result := &LogResult{TotalEntriesBeforeFilter: len(entries)}

	since, until, err := parseDateRange(opts.Since, opts.Until)
	if err != nil {
		return nil, err
	}

	wantOps := map[string]bool{}
	for _, op := range strings.Split(opts.Operations, ",") {
		if op = strings.TrimSpace(strings.ToLower(op)); op != "" {
			wantOps[op] = true
		}
	}

	for _, entry := range entries {
		if len(wantOps) > 0 && !wantOps[strings.ToLower(entry.Operation)] {
			continue
		}
		if !since.IsZero() || !until.IsZero() {
			ts, err := time.Parse(time.RFC3339, entry.Timestamp)
			if err != nil {
				continue
			}
			if !since.IsZero() && ts.Before(since) {
				continue
			}
			if !until.IsZero() && !ts.Before(until) {
				continue
			}
		}
		result.Entries = append(result.Entries, entry)
	}

	if opts.Reverse {
		for i, j := 0, len(result.Entries)-1; i < j; i, j = i+1, j-1 {
			result.Entries[i], result.Entries[j] = result.Entries[j], result.Entries[i]
		}
	}

	if opts.Limit > 0 && len(result.Entries) > opts.Limit {
		result.Entries = result.Entries[:opts.Limit]
	}

	return result, nil
}

// parseDateRange parses the since/until filters. The until bound is
// exclusive of the following day, so "--until 2026-08-01" includes the
// whole of August 1st.
func parseDateRange(sinceStr, untilStr string) (since, until time.Time, err error) {
	if sinceStr != "" {
		since, err = time.Parse("2006-01-02", sinceStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", rerrors.ErrInvalidDateFormat, sinceStr)
		}
	}
	if untilStr != "" {
		until, err = time.Parse("2006-01-02", untilStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", rerrors.ErrInvalidDateFormat, untilStr)
		}
		until = until.AddDate(0, 0, 1)
	}
	return since, until, nil
}
