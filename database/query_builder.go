package database

import (
	"fmt"
	"strings"
	"time"
)

const (
	columnID        = "id"
	columnName      = "name"
	columnCreatedAt = "created_at"
)

// Placeholder renders the n-th (1-based) bind parameter of a dialect.
type Placeholder func(n int) string

// Dollar is the Postgres style: $1, $2, ...
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// Question is the SQLite positional style.
func Question(int) string { return "?" }

// QueryBuilder helps build WHERE clauses safely.
// Conditions are combined with AND; every value is a bind parameter.
type QueryBuilder struct {
	conditions  []string
	args        []interface{}
	argCount    int
	placeholder Placeholder
}

func NewQueryBuilder(placeholder Placeholder) *QueryBuilder {
	if placeholder == nil {
		placeholder = Dollar
	}
	return &QueryBuilder{
		conditions:  []string{},
		args:        []interface{}{},
		argCount:    1,
		placeholder: placeholder,
	}
}

func (qb *QueryBuilder) add(format string, value interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(format, qb.placeholder(qb.argCount)))
	qb.args = append(qb.args, value)
	qb.argCount++
}

func (qb *QueryBuilder) AddCondition(column string, value interface{}) {
	qb.add(column+" = %s", value)
}

func (qb *QueryBuilder) AddNotEqual(column string, value interface{}) {
	qb.add(column+" <> %s", value)
}

// AddEqualFold matches column against value ignoring case.
func (qb *QueryBuilder) AddEqualFold(column, value string) {
	qb.add("LOWER("+column+") = LOWER(%s)", value)
}

// AddContainsFold matches rows whose column contains fragment, ignoring case.
// LIKE wildcards inside fragment are matched literally.
func (qb *QueryBuilder) AddContainsFold(column, fragment string) {
	pattern := "%" + escapeLike(strings.ToLower(fragment)) + "%"
	qb.add("LOWER("+column+") LIKE %s ESCAPE '\\'", pattern)
}

// AddTimeRange adds inclusive bounds; nil bounds are skipped.
func (qb *QueryBuilder) AddTimeRange(column string, from, to *time.Time) {
	if from != nil {
		qb.add(column+" >= %s", from.UTC())
	}
	if to != nil {
		qb.add(column+" <= %s", to.UTC())
	}
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}

// Placeholder returns the next bind parameter and reserves it for value.
func (qb *QueryBuilder) Placeholder(value interface{}) string {
	p := qb.placeholder(qb.argCount)
	qb.args = append(qb.args, value)
	qb.argCount++
	return p
}

// Helper functions

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
