package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)

// storeTests run against every backend.
var storeTests = []struct {
	name string
	fn   func(t *testing.T, conn *Conn)
}{
	{"InsertAndGet", testInsertAndGet},
	{"GetNotFound", testGetNotFound},
	{"InsertDuplicateIgnoresCase", testInsertDuplicate},
	{"NameTaken", testNameTaken},
	{"UpdateName", testUpdateName},
	{"UpdateNotFound", testUpdateNotFound},
	{"UpdateDuplicate", testUpdateDuplicate},
	{"Delete", testDelete},
	{"ListOrderAndFilter", testListOrderAndFilter},
	{"SearchContainsFold", testSearch},
}

func TestSQLiteStore(t *testing.T) {
	for _, tt := range storeTests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewTestSQLite(t)
			conn, err := store.Acquire(context.Background())
			require.NoError(t, err)
			defer conn.Release()

			tt.fn(t, conn)
		})
	}
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := GetTestDB()
	if db == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}

	for _, tt := range storeTests {
		t.Run(tt.name, func(t *testing.T) {
			CleanupTestDB(t, db)
			conn, err := db.Acquire(context.Background())
			require.NoError(t, err)
			defer conn.Release()

			tt.fn(t, conn)
		})
	}
}

func mustInsert(t *testing.T, conn *Conn, name string, createdAt time.Time) int64 {
	t.Helper()
	animal, err := conn.InsertAnimal(context.Background(), name, createdAt)
	require.NoError(t, err)
	return animal.ID
}

func names(t *testing.T, conn *Conn, filter ListFilter) []string {
	t.Helper()
	list, err := conn.ListAnimals(context.Background(), filter)
	require.NoError(t, err)

	out := []string{}
	for _, a := range list {
		out = append(out, a.Name)
	}
	return out
}

func testInsertAndGet(t *testing.T, conn *Conn) {
	ctx := context.Background()
	created, err := conn.InsertAnimal(ctx, "Lion", baseTime)
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Lion", created.Name)
	assert.True(t, created.CreatedAt.Equal(baseTime))

	got, err := conn.GetAnimal(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Lion", got.Name)
	assert.True(t, got.CreatedAt.Equal(baseTime))
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
}

func testGetNotFound(t *testing.T, conn *Conn) {
	_, err := conn.GetAnimal(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testInsertDuplicate(t *testing.T, conn *Conn) {
	mustInsert(t, conn, "Lion", baseTime)

	_, err := conn.InsertAnimal(context.Background(), "LION", baseTime)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func testNameTaken(t *testing.T, conn *Conn) {
	ctx := context.Background()
	id := mustInsert(t, conn, "Lion", baseTime)

	taken, err := conn.NameTaken(ctx, "lion", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = conn.NameTaken(ctx, "lion", id)
	require.NoError(t, err)
	assert.False(t, taken, "own name must not count when excluded")

	taken, err = conn.NameTaken(ctx, "Tiger", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

func testUpdateName(t *testing.T, conn *Conn) {
	id := mustInsert(t, conn, "Lion", baseTime)

	updated, err := conn.UpdateAnimalName(context.Background(), id, "Lioness")
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "Lioness", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(baseTime), "created_at must not change")
}

func testUpdateNotFound(t *testing.T, conn *Conn) {
	_, err := conn.UpdateAnimalName(context.Background(), 9999, "Lion")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testUpdateDuplicate(t *testing.T, conn *Conn) {
	mustInsert(t, conn, "Lion", baseTime)
	id := mustInsert(t, conn, "Tiger", baseTime)

	_, err := conn.UpdateAnimalName(context.Background(), id, "lion")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func testDelete(t *testing.T, conn *Conn) {
	ctx := context.Background()
	id := mustInsert(t, conn, "Lion", baseTime)

	require.NoError(t, conn.DeleteAnimal(ctx, id))

	_, err := conn.GetAnimal(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, conn.DeleteAnimal(ctx, id), ErrNotFound)
}

func testListOrderAndFilter(t *testing.T, conn *Conn) {
	mustInsert(t, conn, "Zebra", baseTime)
	mustInsert(t, conn, "Antelope", baseTime.Add(time.Hour))
	mustInsert(t, conn, "Moose", baseTime.Add(2*time.Hour))

	assert.Equal(t, []string{"Zebra", "Antelope", "Moose"}, names(t, conn, ListFilter{}))
	assert.Equal(t, []string{"Antelope", "Moose", "Zebra"}, names(t, conn, ListFilter{Sort: SortByNameAsc}))
	assert.Equal(t, []string{"Zebra", "Moose", "Antelope"}, names(t, conn, ListFilter{Sort: SortByNameDesc}))

	from := baseTime.Add(time.Hour)
	to := baseTime.Add(time.Hour)
	assert.Equal(t, []string{"Antelope"}, names(t, conn, ListFilter{From: &from, To: &to}), "bounds are inclusive")
	assert.Equal(t, []string{"Antelope", "Moose"}, names(t, conn, ListFilter{From: &from}))
	assert.Equal(t, []string{"Zebra", "Antelope"}, names(t, conn, ListFilter{To: &to}))

	empty := baseTime.Add(-time.Hour)
	assert.Empty(t, names(t, conn, ListFilter{To: &empty}))
}

func testSearch(t *testing.T, conn *Conn) {
	ctx := context.Background()
	mustInsert(t, conn, "Lion", baseTime)
	mustInsert(t, conn, "Sea-Lion", baseTime)
	mustInsert(t, conn, "Tiger", baseTime)

	found, err := conn.SearchAnimals(ctx, "LION")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Lion", found[0].Name)
	assert.Equal(t, "Sea-Lion", found[1].Name)

	found, err = conn.SearchAnimals(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found, "wildcards are matched literally")

	found, err = conn.SearchAnimals(ctx, "")
	require.NoError(t, err)
	assert.Len(t, found, 3)
}
