package pipe

import (
	"sort"

	"streamfmt/internal/format"
	"streamfmt/internal/stream"
)

// Stats counts what happened during a Run. Counting never affects output.
type Stats struct {
	Lines        int // lines read successfully
	Emitted      int // lines that produced output
	DecodeErrors int
	ReadErrors   int
	WriteErrors  int
	UnknownTools int // tool invocations rendered with the generic marker

	Kinds map[stream.Kind]int
	Tools map[string]int
}

func newStats() Stats {
	return Stats{
		Kinds: map[stream.Kind]int{},
		Tools: map[string]int{},
	}
}

// Skipped returns the number of lines that produced no output.
func (s Stats) Skipped() int {
	return s.Lines + s.ReadErrors - s.Emitted - s.WriteErrors
}

func (s *Stats) observe(msg stream.Message) {
	s.Kinds[msg.Kind]++
	for _, block := range msg.Content {
		if tool, ok := block.(stream.ToolUseBlock); ok {
			s.Tools[tool.Name]++
			if !format.KnownTool(tool.Name) {
				s.UnknownTools++
			}
		}
	}
}

// Count is a named counter.
type Count struct {
	Name  string
	Count int
}

// SortedKinds returns message kinds ordered by count, then name.
func (s Stats) SortedKinds() []Count {
	counts := make([]Count, 0, len(s.Kinds))
	for kind, n := range s.Kinds {
		counts = append(counts, Count{Name: string(kind), Count: n})
	}
	sortCounts(counts)
	return counts
}

// SortedTools returns tool names ordered by count, then name.
func (s Stats) SortedTools() []Count {
	counts := make([]Count, 0, len(s.Tools))
	for name, n := range s.Tools {
		counts = append(counts, Count{Name: name, Count: n})
	}
	sortCounts(counts)
	return counts
}

func sortCounts(counts []Count) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
}
