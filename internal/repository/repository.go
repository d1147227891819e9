package repository

import "strings"

// sortClause resolves sort parameters against a per-table allow-list.
// Unknown sort columns fall back to the default column ascending, and
// only ASC/DESC (any case) are honored for the direction. Values never
// reach the SQL string unless they come out of the allow-list, so user
// input cannot inject identifiers.
func sortClause(allowed map[string]string, sortBy, sortOrder, fallback string) string {
	col, ok := allowed[sortBy]
	if !ok {
		return fallback + " ASC"
	}
	dir := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		dir = "DESC"
	}
	return col + " " + dir
}

// searchPattern builds the lowered substring pattern used by the
// case-insensitive search filters.
func searchPattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
