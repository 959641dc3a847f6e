// Package identity canonicalizes raw git author addresses into stable
// contributor keys so that provider-specific address variants (no-reply
// rewrites, sub-addressing, gmail dots) collapse to one identity.
package identity

import (
	"regexp"
	"strings"
)

// Unknown is the sentinel identity for addresses that cannot be resolved to
// a contributor. It is excluded from ownership and coverage counting.
const Unknown = "unknown"

// Matches provider no-reply addresses shaped like
// <numeric-id>+<username>@users.noreply.<host>.
var noreplyPattern = regexp.MustCompile(`^\d+\+(.+@users\.noreply\..+)$`)

// Normalize canonicalizes a raw author address into a stable identity key.
// It is pure and total: every input yields a usable identity, with Unknown
// reserved for addresses that identify nobody. Normalize(Normalize(x)) ==
// Normalize(x) for all x.
//
// Rules, in order: lower-case and trim; strip the numeric id prefix from
// no-reply addresses; for gmail/googlemail drop the local part's +suffix and
// then its dots; for outlook/hotmail/live drop the +suffix only; everything
// else passes through.
func Normalize(raw string) string {
	addr := strings.ToLower(strings.TrimSpace(raw))
	if addr == "" {
		return Unknown
	}

	if m := noreplyPattern.FindStringSubmatch(addr); m != nil {
		return m[1]
	}

	local, domain, found := strings.Cut(addr, "@")
	if !found {
		return addr
	}

	switch domain {
	case "gmail.com", "googlemail.com":
		// Sub-address suffix goes first: a dot may appear after the '+'.
		local, _, _ = strings.Cut(local, "+")
		return strings.ReplaceAll(local, ".", "") + "@" + domain
	case "outlook.com", "hotmail.com", "live.com":
		local, _, _ = strings.Cut(local, "+")
		return local + "@" + domain
	}

	return addr
}
