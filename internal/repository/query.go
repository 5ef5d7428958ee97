package repository

import (
	"fmt"
	"strings"
)

// workerNameSQL renders a worker's display name the way models.HealthcareWorker.FullName does.
// Deployment views and frozen history snapshots both use it.
const workerNameSQL = "w.first_name || ' ' || w.last_name"

// conditions accumulates positional WHERE clauses.
// Formats reference the next placeholder as %[1]d so one value may be used several times.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(format string, value interface{}) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf(format, len(c.args)))
}

func (c *conditions) where(base string) string {
	if len(c.clauses) == 0 {
		return base
	}
	return base + " AND " + strings.Join(c.clauses, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern builds a case-folded substring pattern. LIKE metacharacters in the input match
// literally under Postgres' default backslash escape.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}
