package gist

import (
	"fmt"
	"regexp"
	"strings"
)

// Gist ids are hex strings: 32 chars for current gists, 20 for historic ones.
var gistIDPattern = regexp.MustCompile(`^([0-9a-f]{32}|[0-9a-f]{20})$`)

const gistHost = "gist.github.com/"

// ExtractID resolves a user-supplied identifier to a bare gist id. Accepted
// forms are the bare hex id and a gist.github.com URL with an optional owner
// path segment. Anything else fails with ErrInvalidIdentifier before any
// network call.
func ExtractID(identifier string) (string, error) {
	s := strings.TrimSpace(identifier)
	if s == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidIdentifier)
	}

	if idx := strings.Index(s, gistHost); idx >= 0 {
		rest := s[idx+len(gistHost):]
		if cut := strings.IndexAny(rest, "?#"); cut >= 0 {
			rest = rest[:cut]
		}
		segments := strings.Split(strings.Trim(rest, "/"), "/")
		// "gist.github.com/<id>" or "gist.github.com/<owner>/<id>"
		candidate := segments[len(segments)-1]
		if gistIDPattern.MatchString(candidate) && len(segments) <= 2 {
			return candidate, nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, identifier)
	}

	if gistIDPattern.MatchString(s) {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, identifier)
}
