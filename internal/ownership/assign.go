package ownership

import "sort"

// Assign determines each file's primary owner and inverts the result into
// per-author coverage. Files with empty histograms carry no owner and are
// skipped. Coverage file lists come back sorted so downstream consumers see
// a stable order regardless of map iteration.
func Assign(histograms map[string]Histogram) (owners map[string]string, coverage map[string][]string) {
	owners = make(map[string]string, len(histograms))
	coverage = make(map[string][]string)

	for file, hist := range histograms {
		owner, ok := hist.PrimaryOwner()
		if !ok {
			continue
		}
		owners[file] = owner
		coverage[owner] = append(coverage[owner], file)
	}

	for _, files := range coverage {
		sort.Strings(files)
	}

	return owners, coverage
}
