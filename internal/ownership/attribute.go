package ownership

import "github.com/thoughtful-solutions/metrics/internal/identity"

// Attribute folds per-line attribution records into a per-file histogram.
// Addresses are normalized first; records that resolve to identity.Unknown
// are dropped rather than counted. An empty histogram is a valid outcome
// meaning the file is excluded from ownership analysis, never an error.
func Attribute(records []LineAttribution) Histogram {
	hist := make(Histogram)
	for _, rec := range records {
		id := identity.Normalize(rec.AuthorAddress)
		if id == identity.Unknown {
			continue
		}
		hist[id]++
	}
	return hist
}
