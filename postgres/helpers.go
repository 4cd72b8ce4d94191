package postgres

import (
	"strconv"
	"strings"
)

// appendWhere appends an AND clause with a positional placeholder
// numbered after the current argument list.
func appendWhere(query *strings.Builder, args *[]any, expr string, arg any) {
	*args = append(*args, arg)
	query.WriteString(" AND " + expr + " $" + strconv.Itoa(len(*args)))
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder
// if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		*args = append(*args, limit)
		query.WriteString(" LIMIT $" + strconv.Itoa(len(*args)))
	}
	if offset > 0 {
		*args = append(*args, offset)
		query.WriteString(" OFFSET $" + strconv.Itoa(len(*args)))
	}
}
