package ownership

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidThreshold reports an orphan threshold outside (0, 1]. The
// simulator rejects such thresholds instead of clamping them.
var ErrInvalidThreshold = errors.New("orphan threshold must be in (0, 1]")

// Simulate runs the greedy degradation loop: repeatedly remove the author
// whose primary-owned files cover the most of the still-covered set, until
// the orphaned fraction reaches orphanThreshold or no further removal can
// orphan anything. Each removal emits one RiskEvent; the number of events is
// the truck factor.
//
// owners and coverage are expected as produced by Assign. Every author's
// live coverage is recomputed each round (covered shrinks monotonically),
// and ties go to the lexicographically smallest identity, so the result is
// deterministic for fixed inputs. Zero owned files is not an error: the
// result is simply a zero truck factor.
func Simulate(histograms map[string]Histogram, owners map[string]string, coverage map[string][]string, orphanThreshold float64) (int, []RiskEvent, error) {
	if orphanThreshold <= 0 || orphanThreshold > 1 {
		return 0, nil, fmt.Errorf("%w: got %g", ErrInvalidThreshold, orphanThreshold)
	}

	// Stable file enumeration; covered is an index-keyed set over it.
	files := make([]string, 0, len(owners))
	for file := range owners {
		files = append(files, file)
	}
	sort.Strings(files)

	total := len(files)
	if total == 0 {
		return 0, []RiskEvent{}, nil
	}

	index := make(map[string]int, total)
	for i, file := range files {
		index[file] = i
	}

	covered := make([]bool, total)
	for i := range covered {
		covered[i] = true
	}

	active := make(map[string][]int, len(coverage))
	authors := make([]string, 0, len(coverage))
	for author, owned := range coverage {
		indexes := make([]int, 0, len(owned))
		for _, file := range owned {
			if i, ok := index[file]; ok {
				indexes = append(indexes, i)
			}
		}
		sort.Ints(indexes)
		active[author] = indexes
		authors = append(authors, author)
	}
	sort.Strings(authors)

	events := []RiskEvent{}
	orphaned := 0

	for float64(orphaned)/float64(total) < orphanThreshold {
		// Pick the author with the largest live coverage. Iterating in
		// sorted order with a strict comparison settles ties toward the
		// smallest identity.
		selected := ""
		impact := 0
		for _, author := range authors {
			owned, alive := active[author]
			if !alive {
				continue
			}
			live := 0
			for _, i := range owned {
				if covered[i] {
					live++
				}
			}
			if live > impact {
				selected, impact = author, live
			}
		}
		if selected == "" {
			// No remaining author orphans anything; the threshold is
			// unreachable and the simulation ends normally.
			break
		}

		loc := 0
		for _, i := range active[selected] {
			if covered[i] {
				covered[i] = false
				orphaned++
				loc += histograms[files[i]][selected]
			}
		}

		events = append(events, RiskEvent{
			Author:        selected,
			FilesImpacted: impact,
			LOCImpacted:   loc,
		})
		delete(active, selected)
	}

	return len(events), events, nil
}
