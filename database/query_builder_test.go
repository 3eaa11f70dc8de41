package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder_AddCondition(t *testing.T) {
	qb := NewQueryBuilder(Dollar)

	qb.AddCondition("id", int64(7))

	assert.Equal(t, "WHERE id = $1", qb.WhereClause())
	assert.Equal(t, []interface{}{int64(7)}, qb.Args())
}

func TestQueryBuilder_MultipleConditions(t *testing.T) {
	qb := NewQueryBuilder(Dollar)

	qb.AddEqualFold("name", "Lion")
	qb.AddNotEqual("id", int64(3))

	assert.Equal(t, "WHERE LOWER(name) = LOWER($1) AND id <> $2", qb.WhereClause())
	assert.Equal(t, []interface{}{"Lion", int64(3)}, qb.Args())
}

func TestQueryBuilder_QuestionPlaceholders(t *testing.T) {
	qb := NewQueryBuilder(Question)

	qb.AddEqualFold("name", "Lion")
	qb.AddNotEqual("id", int64(3))

	assert.Equal(t, "WHERE LOWER(name) = LOWER(?) AND id <> ?", qb.WhereClause())
	assert.Len(t, qb.Args(), 2)
}

func TestQueryBuilder_AddTimeRange(t *testing.T) {
	from := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 11, 22, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		from      *time.Time
		to        *time.Time
		wantWhere string
		wantArgs  int
	}{
		{
			name:      "both bounds",
			from:      &from,
			to:        &to,
			wantWhere: "WHERE created_at >= $1 AND created_at <= $2",
			wantArgs:  2,
		},
		{
			name:      "only from",
			from:      &from,
			wantWhere: "WHERE created_at >= $1",
			wantArgs:  1,
		},
		{
			name:      "only to",
			to:        &to,
			wantWhere: "WHERE created_at <= $1",
			wantArgs:  1,
		},
		{
			name:      "neither",
			wantWhere: "",
			wantArgs:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := NewQueryBuilder(Dollar)
			qb.AddTimeRange("created_at", tt.from, tt.to)

			assert.Equal(t, tt.wantWhere, qb.WhereClause())
			assert.Len(t, qb.Args(), tt.wantArgs)
		})
	}
}

func TestQueryBuilder_AddTimeRange_ConvertsToUTC(t *testing.T) {
	warsaw := time.FixedZone("CET", 3600)
	from := time.Date(2024, 11, 1, 1, 0, 0, 0, warsaw)

	qb := NewQueryBuilder(Dollar)
	qb.AddTimeRange("created_at", &from, nil)

	got := qb.Args()[0].(time.Time)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(from))
}

func TestQueryBuilder_AddContainsFold(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{name: "lowercases", fragment: "LiOn", want: "%lion%"},
		{name: "escapes percent", fragment: "50%", want: `%50\%%`},
		{name: "escapes underscore", fragment: "a_b", want: `%a\_b%`},
		{name: "escapes backslash", fragment: `a\b`, want: `%a\\b%`},
		{name: "empty matches all", fragment: "", want: "%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := NewQueryBuilder(Dollar)
			qb.AddContainsFold("name", tt.fragment)

			assert.Equal(t, `WHERE LOWER(name) LIKE $1 ESCAPE '\'`, qb.WhereClause())
			assert.Equal(t, []interface{}{tt.want}, qb.Args())
		})
	}
}

func TestQueryBuilder_Placeholder(t *testing.T) {
	qb := NewQueryBuilder(Dollar)

	set := qb.Placeholder("Tiger")
	qb.AddCondition("id", int64(1))

	assert.Equal(t, "$1", set)
	assert.Equal(t, "WHERE id = $2", qb.WhereClause())
	assert.Equal(t, []interface{}{"Tiger", int64(1)}, qb.Args())
}

func TestQueryBuilder_WhereClause_Empty(t *testing.T) {
	qb := NewQueryBuilder(nil)

	assert.Equal(t, "", qb.WhereClause())
	assert.Empty(t, qb.Args())
}
