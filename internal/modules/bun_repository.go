package modules

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewModuleRepository builds the generic bun-backed repository for modules.
func NewModuleRepository(db *bun.DB) repository.Repository[*Module] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Module]{
		NewRecord: func() *Module { return &Module{} },
		GetID: func(m *Module) uuid.UUID {
			return m.ID
		},
		SetID: func(m *Module, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(m *Module) string {
			return m.Slug
		},
	})
}

// BunRepository implements Repository on bun with optional read caching.
// Module definitions are hot on every validate/render path, so callers
// embedding the engine typically wrap this with the cache service.
type BunRepository struct {
	repo repository.Repository[*Module]
}

// NewBunRepository creates a module repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a module repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewModuleRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *Module) (*Module, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "module", record.Slug)
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Module, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "module", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Module, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "module", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "module", Key: slug}
	}
	return records[0], nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Module, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "module", "")
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Module) (*Module, error) {
	updated, err := r.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "module", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	record := &Module{ID: id}
	if err := r.repo.Delete(ctx, record); err != nil {
		return mapRepositoryError(err, "module", id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}
