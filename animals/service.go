package animals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"zoo/database"
	"zoo/models"
)

// Service applies the animal business rules on top of a record store.
// Every operation acquires its own store connection and releases it on return.
type Service struct {
	store     database.Store
	logger    *zap.Logger
	threshold float64
	now       func() time.Time
}

type Option func(*Service)

// WithThreshold sets the minimum similarity of fuzzy search hits.
func WithThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithClock replaces the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store database.Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:     store,
		logger:    logger,
		threshold: DefaultThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseSort maps the sort query token onto a store ordering.
// An empty token keeps the store's id order.
func ParseSort(token string) (database.SortOrder, error) {
	switch token {
	case "":
		return database.SortByID, nil
	case "name":
		return database.SortByNameAsc, nil
	case "-name":
		return database.SortByNameDesc, nil
	default:
		return 0, newError(KindInvalidSortParameter, ReasonInvalidSort, token)
	}
}

// List returns all animals, optionally bounded by creation date and sorted by name.
func (s *Service) List(ctx context.Context, params models.ListParams) ([]models.Animal, error) {
	var filter database.ListFilter

	if params.FromDate != "" {
		from, err := ParseISODate(params.FromDate)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if params.ToDate != "" {
		to, err := ParseISODate(params.ToDate)
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}

	order, err := ParseSort(params.Sort)
	if err != nil {
		return nil, err
	}
	filter.Sort = order

	conn, err := s.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return conn.ListAnimals(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Animal, error) {
	conn, err := s.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	animal, err := conn.GetAnimal(ctx, id)
	if err != nil {
		return nil, s.storeError(err, id)
	}
	return animal, nil
}

// Create validates name, checks it is unused and persists a new animal.
func (s *Service) Create(ctx context.Context, name string) (*models.Animal, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	conn, err := s.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	if err := s.checkUnique(ctx, conn, name, 0); err != nil {
		return nil, err
	}

	createdAt := s.now().UTC().Truncate(time.Microsecond)
	animal, err := conn.InsertAnimal(ctx, name, createdAt)
	if err != nil {
		return nil, s.storeError(err, 0)
	}

	s.logger.Info("Created animal", zap.Int64("id", animal.ID), zap.String("name", animal.Name))
	return animal, nil
}

// Update renames animal id. Keeping the current name is allowed.
func (s *Service) Update(ctx context.Context, id int64, name string) (*models.Animal, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	conn, err := s.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	if _, err := conn.GetAnimal(ctx, id); err != nil {
		return nil, s.storeError(err, id)
	}

	if err := s.checkUnique(ctx, conn, name, id); err != nil {
		return nil, err
	}

	animal, err := conn.UpdateAnimalName(ctx, id, name)
	if err != nil {
		return nil, s.storeError(err, id)
	}

	s.logger.Info("Updated animal", zap.Int64("id", animal.ID), zap.String("name", animal.Name))
	return animal, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	conn, err := s.store.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if err := conn.DeleteAnimal(ctx, id); err != nil {
		return s.storeError(err, id)
	}
	return nil
}

// Search finds animals whose name contains query, ignoring case. When none
// do, it falls back to names whose similarity to query reaches the threshold.
func (s *Service) Search(ctx context.Context, query string) ([]models.Animal, error) {
	conn, err := s.store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	matches, err := conn.SearchAnimals(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		all, err := conn.ListAnimals(ctx, database.ListFilter{})
		if err != nil {
			return nil, err
		}
		matches = s.similar(query, all)
		s.logger.Debug("Search fell back to similarity",
			zap.String("query", query),
			zap.Int("candidates", len(all)),
			zap.Int("matches", len(matches)),
		)
	}

	if len(matches) == 0 {
		return nil, newError(KindSearchNotFound, ReasonNoResults)
	}
	return matches, nil
}

func (s *Service) similar(query string, candidates []models.Animal) []models.Animal {
	q := strings.ToLower(query)
	matches := []models.Animal{}
	for _, a := range candidates {
		if Similarity(q, strings.ToLower(a.Name)) >= s.threshold {
			matches = append(matches, a)
		}
	}
	return matches
}

// checkUnique fails with DuplicateName when another animal, other than
// excludeID, already uses name in any letter case.
func (s *Service) checkUnique(ctx context.Context, conn *database.Conn, name string, excludeID int64) error {
	taken, err := conn.NameTaken(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return newError(KindDuplicateName, ReasonDuplicateName)
	}
	return nil
}

// storeError converts store sentinels into business errors.
func (s *Service) storeError(err error, id int64) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return notFound(id)
	case errors.Is(err, database.ErrDuplicate):
		return &Error{Kind: KindDuplicateName, Reason: ReasonDuplicateName, Err: err}
	default:
		return fmt.Errorf("store: %w", err)
	}
}
