package resolver

import (
	"strconv"
	"strings"
)

// DefaultCount is how many results a search returns unless the query says otherwise.
const DefaultCount = 3

// ParseQuery splits "term|count" into its parts. A missing, malformed or
// non-positive count yields fallback.
// e.g., "lofi|2" -> ("lofi", 2)
func ParseQuery(query string, fallback int) (string, int) {
	if fallback < 1 {
		fallback = DefaultCount
	}

	term, num, found := strings.Cut(query, "|")
	term = strings.TrimSpace(term)
	if !found {
		return term, fallback
	}

	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 1 {
		return term, fallback
	}
	return term, n
}
