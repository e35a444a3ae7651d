package pipeline

import "strings"

// Delimiter separates the fields of one candidate line.
const Delimiter = "|"

// LineParser converts the trimmed fields of one candidate line into a record.
// It returns ok=false when any field fails its sanitizer, which skips the
// line without aborting the batch.
type LineParser[T any] func(parts []string) (T, bool)

// Extract splits raw generated text into candidate lines and parses each one
// into a record. A line is emitted iff it contains exactly fieldCount
// delimiter-separated fields, every field passes its sanitizer, and its dedup
// key has not been seen earlier in the batch (first seen wins). Output
// preserves insertion order. Extract is pure: identical input yields
// identical output.
func Extract[T any](raw string, fieldCount int, parse LineParser[T], dedupKey func(T) string) []T {
	var records []T
	seen := make(map[string]struct{})

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" || !strings.Contains(line, Delimiter) {
			continue
		}

		parts := strings.Split(line, Delimiter)
		if len(parts) != fieldCount {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		record, ok := parse(parts)
		if !ok {
			continue
		}

		key := dedupKey(record)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		records = append(records, record)
	}

	return records
}
