package refoptions

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formrows/pkg/refdata"
)

// Search filters entries whose label or value contains query, case
// insensitively. Label prefix matches sort first; ties keep payload order.
func Search(entries []refdata.Entry, query string, limit int, opts Options) []refdata.Entry {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchAll {
			return nil
		}
		if len(entries) <= limit {
			return append([]refdata.Entry{}, entries...)
		}
		return append([]refdata.Entry{}, entries[:limit]...)
	}

	q := strings.ToLower(query)
	matches := make([]matchedEntry, 0, len(entries))
	for _, entry := range entries {
		label := strings.ToLower(entry.Label)
		value := strings.ToLower(entry.Value)
		if !strings.Contains(label, q) && !strings.Contains(value, q) {
			continue
		}
		matches = append(matches, matchedEntry{
			entry:    entry,
			isPrefix: strings.HasPrefix(label, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]refdata.Entry, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.entry)
	}
	return out
}

type matchedEntry struct {
	entry    refdata.Entry
	isPrefix bool
}
