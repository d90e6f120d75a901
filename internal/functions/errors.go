package functions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/vk/queryfuncs/internal/aliases"
)

const maxHints = 2

// NotFoundError is returned by Get and GetImpl when a name matches no
// registered function or alias. Its message is meant for end users.
type NotFoundError struct {
	// Name is the name exactly as requested.
	Name string
	// Hints lists registered names close to Name, best match first.
	Hints []string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("unknown function `%s`", e.Name)
	if len(e.Hints) == 0 {
		return msg
	}
	quoted := make([]string, len(e.Hints))
	for i, h := range e.Hints {
		quoted[i] = "`" + h + "`"
	}
	return msg + ". Maybe you meant: " + strings.Join(quoted, ", ")
}

// suggest returns up to maxHints candidates within an edit distance of a third
// of the requested name's length. Comparison is done on normalized names.
func suggest(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}

	target := aliases.Normalize(name)
	limit := len(target) / 3
	if limit < 1 {
		limit = 1
	}

	var matches []scored
	for _, c := range candidates {
		d := levenshtein.Distance(target, aliases.Normalize(c), nil)
		if d <= limit {
			matches = append(matches, scored{name: c, dist: d})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	var hints []string
	for _, m := range matches {
		if len(hints) == maxHints {
			break
		}
		hints = append(hints, m.name)
	}
	return hints
}
