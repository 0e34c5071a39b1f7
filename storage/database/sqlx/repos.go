// Package sqlxrepos implements the domain repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"regexp"
	"strings"

	"github.com/darasahub/darasa/core"
)

var identRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// orderBy renders an ORDER BY clause from the requested orderings, dropping
// anything that is not a plain column identifier, and falls back to def.
func orderBy(ordering []core.DBOrdering, def string) string {
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if !identRegex.MatchString(ord.Field) {
			continue
		}
		clauses = append(clauses, ord.String())
	}
	if len(clauses) == 0 {
		if def == "" {
			return ""
		}
		return " ORDER BY " + def
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}
