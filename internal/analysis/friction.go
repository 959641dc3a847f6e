package analysis

import (
	"sort"

	"github.com/thoughtful-solutions/metrics/internal/gitrepo"
	"github.com/thoughtful-solutions/metrics/internal/identity"
)

// DefaultFrictionMinAuthors is the distinct-author count at which a file
// is flagged as a coordination hotspot.
const DefaultFrictionMinAuthors = 5

// FrictionFile is a file touched by enough distinct contributors to make
// coordination around it expensive.
type FrictionFile struct {
	File    string   `json:"file"`
	Authors int      `json:"authors"`
	Emails  []string `json:"emails"`
}

// Friction flags files in relevant whose distinct normalized author count
// over the given commits reaches minAuthors, most contested first.
// Unattributable authors do not count.
func Friction(commits []gitrepo.Commit, relevant []string, minAuthors int) []FrictionFile {
	if minAuthors <= 0 {
		minAuthors = DefaultFrictionMinAuthors
	}
	wanted := make(map[string]bool, len(relevant))
	for _, f := range relevant {
		wanted[f] = true
	}

	authorsByFile := map[string]map[string]bool{}
	for _, c := range commits {
		author := identity.Normalize(c.AuthorEmail)
		if author == identity.Unknown {
			continue
		}
		for _, f := range c.Files {
			if !wanted[f] {
				continue
			}
			set, ok := authorsByFile[f]
			if !ok {
				set = map[string]bool{}
				authorsByFile[f] = set
			}
			set[author] = true
		}
	}

	var flagged []FrictionFile
	for f, authors := range authorsByFile {
		if len(authors) < minAuthors {
			continue
		}
		emails := make([]string, 0, len(authors))
		for a := range authors {
			emails = append(emails, a)
		}
		sort.Strings(emails)
		flagged = append(flagged, FrictionFile{File: f, Authors: len(authors), Emails: emails})
	}

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].Authors != flagged[j].Authors {
			return flagged[i].Authors > flagged[j].Authors
		}
		return flagged[i].File < flagged[j].File
	})
	return flagged
}
