package timeline

// ChunkPolicy controls how wrapped lines are grouped into pages.
type ChunkPolicy struct {
	// SingleMax is the largest line count shown as a single page.
	SingleMax int
	// DoubleMax is the largest line count split into exactly two pages.
	DoubleMax int
	// LinesPerPage is the page size once a section exceeds DoubleMax.
	LinesPerPage int
	// MinChunkSec is the shortest time any page may stay on screen.
	MinChunkSec float64
}

// BuildChunks groups lines into timed pages covering sectionSec seconds.
// Every line lands in exactly one chunk, in input order. Durations are
// proportional to line counts but never drop below the policy minimum, so
// their sum can exceed sectionSec; the composer settles that overflow.
// Zero lines yield zero chunks.
func BuildChunks(lines []string, sectionSec float64, policy ChunkPolicy) []Chunk {
	if len(lines) == 0 {
		return nil
	}
	groups := groupLines(lines, policy)
	total := float64(len(lines))
	chunks := make([]Chunk, 0, len(groups))
	var offset float64
	for _, group := range groups {
		dur := float64(len(group)) / total * sectionSec
		if dur < policy.MinChunkSec {
			dur = policy.MinChunkSec
		}
		chunks = append(chunks, Chunk{Lines: group, StartOffset: offset, Duration: dur})
		offset += dur
	}
	return chunks
}

func groupLines(lines []string, policy ChunkPolicy) [][]string {
	n := len(lines)
	switch {
	case n <= policy.SingleMax:
		return [][]string{lines}
	case n <= policy.DoubleMax:
		// Integer midpoint: the first page gets the smaller half.
		mid := n / 2
		return [][]string{lines[:mid], lines[mid:]}
	default:
		var groups [][]string
		for start := 0; start < n; start += policy.LinesPerPage {
			end := start + policy.LinesPerPage
			if end > n {
				end = n
			}
			groups = append(groups, lines[start:end])
		}
		return groups
	}
}
