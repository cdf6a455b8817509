package localexecutor

import "fmt"

// Range is the half-open interval of entries [Begin, End) processed by one
// invocation.
type Range struct {
	ID    int
	Begin int
	End   int
}

// Entries returns the number of entries in the range.
func (r Range) Entries() int { return r.End - r.Begin }

// Ranges splits entries into n contiguous ranges whose sizes differ by at
// most one, larger ranges first. Fewer than n ranges are returned when there
// are fewer entries than ranges; an empty dataset yields a single empty range.
func Ranges(entries, n int) ([]Range, error) {
	if entries < 0 {
		return nil, fmt.Errorf("negative number of entries: %d", entries)
	}
	if n <= 0 {
		return nil, fmt.Errorf("number of ranges must be positive, got %d", n)
	}
	if entries == 0 {
		return []Range{{ID: 0}}, nil
	}
	if n > entries {
		n = entries
	}

	size, rem := entries/n, entries%n
	ranges := make([]Range, n)
	begin := 0
	for i := range ranges {
		end := begin + size
		if i < rem {
			end++
		}
		ranges[i] = Range{ID: i, Begin: begin, End: end}
		begin = end
	}
	return ranges, nil
}
