package language

import (
	"fmt"
	"io"
	"sort"
)

// Tally counts detected language codes across one run. It is owned by the caller of
// the run and is not safe for concurrent use.
type Tally struct {
	counts map[string]int
	total  int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments the bucket for code.
func (t *Tally) Add(code string) {
	t.counts[code]++
	t.total++
}

// Count returns the number of occurrences recorded for code.
func (t *Tally) Count(code string) int {
	return t.counts[code]
}

// Total returns the number of classified comments.
func (t *Tally) Total() int {
	return t.total
}

// Entry is one language bucket of a tally.
type Entry struct {
	Code    string
	Count   int
	Percent float64
}

// Entries returns the buckets ordered by count, most common first; ties sort by code.
func (t *Tally) Entries() []Entry {
	entries := make([]Entry, 0, len(t.counts))
	for code, count := range t.counts {
		entries = append(entries, Entry{
			Code:    code,
			Count:   count,
			Percent: 100 * float64(count) / float64(t.total),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Code < entries[j].Code
	})
	return entries
}

// WriteReport prints the language frequency report.
func (t *Tally) WriteReport(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "\n--- Language Report ---"); err != nil {
		return err
	}
	for _, e := range t.Entries() {
		if _, err := fmt.Fprintf(w, "%s: %d (%.2f%%)\n", e.Code, e.Count, e.Percent); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Total detected comments: %d\n", t.total); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "-----------------------")
	return err
}
