package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zoo/models"
)

var (
	// ErrNotFound is returned when no animal matches the requested id.
	ErrNotFound = errors.New("animal not found")
	// ErrDuplicate is returned when the unique index on lower(name) rejects a write.
	ErrDuplicate = errors.New("animal name already exists")
)

// SortOrder selects the ordering of ListAnimals.
type SortOrder int

const (
	SortByID SortOrder = iota
	SortByNameAsc
	SortByNameDesc
)

// ListFilter holds the optional predicates of ListAnimals.
// Nil bounds are not applied; both bounds are inclusive.
type ListFilter struct {
	From *time.Time
	To   *time.Time
	Sort SortOrder
}

// Store is a record store that hands out one scoped connection per operation.
// Every Conn returned by Acquire must be released by the caller.
type Store interface {
	Acquire(ctx context.Context) (*Conn, error)
	Ping(ctx context.Context) error
	Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// executor abstracts the driver-specific connection behind a Conn.
type executor interface {
	query(ctx context.Context, sql string, args ...interface{}) (rowsScanner, func(), error)
	queryRow(ctx context.Context, sql string, args ...interface{}) rowScanner
	exec(ctx context.Context, sql string, args ...interface{}) (int64, error)
	// translate maps driver errors onto ErrNotFound and ErrDuplicate.
	translate(err error) error
	release()
}

// dialect captures the SQL differences between backends.
type dialect struct {
	name        string
	placeholder Placeholder
	// nameOrder is the ORDER BY expression giving byte-wise name ordering.
	nameOrder string
}

// Conn is a scoped handle on the record store, valid until Release.
type Conn struct {
	ex      executor
	dialect dialect
	logger  *zap.Logger
}

func newConn(ex executor, d dialect, logger *zap.Logger) *Conn {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conn{ex: ex, dialect: d, logger: logger}
}

// Release returns the underlying connection to its pool. Safe to call once.
func (c *Conn) Release() {
	c.ex.release()
}

func (c *Conn) logDuration(op string, start time.Time, fields ...zap.Field) {
	c.logger.Debug(op, append(fields,
		zap.String("driver", c.dialect.name),
		zap.Duration("duration", time.Since(start)),
	)...)
}

const selectAnimals = `SELECT id, name, created_at FROM animals`

// ListAnimals returns all animals matching filter.
// Returns empty slice (not nil) if nothing matches.
func (c *Conn) ListAnimals(ctx context.Context, filter ListFilter) ([]models.Animal, error) {
	start := time.Now()

	qb := NewQueryBuilder(c.dialect.placeholder)
	qb.AddTimeRange(columnCreatedAt, filter.From, filter.To)

	query := fmt.Sprintf("%s %s ORDER BY %s", selectAnimals, qb.WhereClause(), c.orderBy(filter.Sort))

	animals, err := c.queryAnimals(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}

	c.logDuration("ListAnimals", start, zap.Int("count", len(animals)))
	return animals, nil
}

// SearchAnimals returns animals whose name contains fragment, ignoring case,
// in id order.
func (c *Conn) SearchAnimals(ctx context.Context, fragment string) ([]models.Animal, error) {
	start := time.Now()

	qb := NewQueryBuilder(c.dialect.placeholder)
	qb.AddContainsFold(columnName, fragment)

	query := fmt.Sprintf("%s %s ORDER BY %s", selectAnimals, qb.WhereClause(), columnID)

	animals, err := c.queryAnimals(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to search animals: %w", err)
	}

	c.logDuration("SearchAnimals", start, zap.String("fragment", fragment), zap.Int("count", len(animals)))
	return animals, nil
}

func (c *Conn) GetAnimal(ctx context.Context, id int64) (*models.Animal, error) {
	qb := NewQueryBuilder(c.dialect.placeholder)
	qb.AddCondition(columnID, id)

	query := fmt.Sprintf("%s %s", selectAnimals, qb.WhereClause())

	animal, err := scanAnimal(c.ex.queryRow(ctx, query, qb.Args()...))
	if err != nil {
		err = c.ex.translate(err)
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	return animal, nil
}

// NameTaken reports whether another animal already uses name, ignoring case.
// An excludeID of zero excludes nothing.
func (c *Conn) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	qb := NewQueryBuilder(c.dialect.placeholder)
	qb.AddEqualFold(columnName, name)
	if excludeID != 0 {
		qb.AddNotEqual(columnID, excludeID)
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM animals %s", qb.WhereClause())

	var count int64
	if err := c.ex.queryRow(ctx, query, qb.Args()...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check animal name: %w", err)
	}
	return count > 0, nil
}

// InsertAnimal persists a new animal and returns it with its assigned id.
func (c *Conn) InsertAnimal(ctx context.Context, name string, createdAt time.Time) (*models.Animal, error) {
	start := time.Now()

	qb := NewQueryBuilder(c.dialect.placeholder)
	query := fmt.Sprintf(`
		INSERT INTO animals (%s, %s)
		VALUES (%s, %s)
		RETURNING %s
	`, columnName, columnCreatedAt, qb.Placeholder(name), qb.Placeholder(createdAt.UTC()), columnID)

	var id int64
	if err := c.ex.queryRow(ctx, query, qb.Args()...).Scan(&id); err != nil {
		if errors.Is(c.ex.translate(err), ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create animal: %w", err)
	}

	c.logDuration("InsertAnimal", start, zap.Int64("id", id))
	return c.GetAnimal(ctx, id)
}

// UpdateAnimalName renames an animal and returns the updated record.
func (c *Conn) UpdateAnimalName(ctx context.Context, id int64, name string) (*models.Animal, error) {
	start := time.Now()

	qb := NewQueryBuilder(c.dialect.placeholder)
	set := qb.Placeholder(name)
	qb.AddCondition(columnID, id)

	query := fmt.Sprintf("UPDATE animals SET %s = %s %s", columnName, set, qb.WhereClause())

	affected, err := c.ex.exec(ctx, query, qb.Args()...)
	if err != nil {
		if errors.Is(c.ex.translate(err), ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update animal: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	c.logDuration("UpdateAnimalName", start, zap.Int64("id", id))
	return c.GetAnimal(ctx, id)
}

func (c *Conn) DeleteAnimal(ctx context.Context, id int64) error {
	qb := NewQueryBuilder(c.dialect.placeholder)
	qb.AddCondition(columnID, id)

	affected, err := c.ex.exec(ctx, "DELETE FROM animals "+qb.WhereClause(), qb.Args()...)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	c.logger.Info("Deleted animal", zap.Int64("id", id))
	return nil
}

func (c *Conn) orderBy(order SortOrder) string {
	switch order {
	case SortByNameAsc:
		return c.dialect.nameOrder + " ASC, " + columnID
	case SortByNameDesc:
		return c.dialect.nameOrder + " DESC, " + columnID
	default:
		return columnID
	}
}

func (c *Conn) queryAnimals(ctx context.Context, query string, args ...interface{}) ([]models.Animal, error) {
	rows, closeRows, err := c.ex.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows()

	return scanAnimals(rows)
}

// Helper functions

func scanAnimal(row rowScanner) (*models.Animal, error) {
	var animal models.Animal
	err := row.Scan(
		&animal.ID,
		&animal.Name,
		&animal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	animal.CreatedAt = animal.CreatedAt.UTC()
	return &animal, nil
}

func scanAnimals(rows rowsScanner) ([]models.Animal, error) {
	animals := []models.Animal{}
	for rows.Next() {
		animal, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan animal: %w", err)
		}
		animals = append(animals, *animal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating animals: %w", err)
	}

	return animals, nil
}
