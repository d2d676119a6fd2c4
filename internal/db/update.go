package db

import (
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/M0narcHzZ/FitnessTracker/pkg"
)

// BuildUpdate compiles a sparse field map into a single UPDATE statement
// touching only the supplied columns. Field names arrive in the external
// camelCase convention and are translated to the column naming convention.
// Every identifier is quoted via pgx.Identifier, so reserved words like
// "order" are safe, and all values are bound as parameters.
//
// The record id is never an updatable field: an "id" key in the map is
// dropped, not rejected. An empty map compiles to no statement at all
// (empty SQL, nil args) - the caller then just re-reads the current record,
// so an empty patch stays distinguishable from a missing record.
func BuildUpdate(table string, id int, fields map[string]any) (string, []any) {
	columns := make([]string, 0, len(fields))
	byColumn := make(map[string]any, len(fields))
	for name, value := range fields {
		column := pkg.CamelToSnake(name)
		if column == "id" {
			continue
		}
		columns = append(columns, column)
		byColumn[column] = value
	}

	if len(columns) == 0 {
		return "", nil
	}

	// deterministic statement for identical input
	sort.Strings(columns)

	sql := "UPDATE " + pgx.Identifier{table}.Sanitize() + " SET "
	args := make([]any, 0, len(columns)+1)
	args = append(args, id)
	for i, column := range columns {
		if i > 0 {
			sql += ", "
		}
		sql += pgx.Identifier{column}.Sanitize() + " = $" + strconv.Itoa(len(args)+1)
		args = append(args, byColumn[column])
	}
	sql += " WHERE id = $1"

	return sql, args
}
