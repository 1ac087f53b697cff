package pages

import (
	"context"
	"database/sql"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewPageRepository builds the generic bun-backed repository for pages.
func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Slug
		},
	})
}

// BunRepository implements Repository on bun with optional read caching.
type BunRepository struct {
	repo repository.Repository[*Page]
}

// NewBunRepository creates a page repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a page repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewPageRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *Page) (*Page, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "page", record.Slug)
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "page", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return records[0], nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Page, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "page", "")
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Page) (*Page, error) {
	updated, err := r.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "page", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Page{ID: id}); err != nil {
		return mapRepositoryError(err, "page", id.String())
	}
	return nil
}

// BunBindingRepository stores the page/section join rows directly on bun.
type BunBindingRepository struct {
	db *bun.DB
}

// NewBunBindingRepository creates the binding repository.
func NewBunBindingRepository(db *bun.DB) *BunBindingRepository {
	return &BunBindingRepository{db: db}
}

func (r *BunBindingRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*SectionBinding, error) {
	var rows []*SectionBinding
	err := r.db.NewSelect().
		Model(&rows).
		Where("?TableAlias.page_id = ?", pageID.String()).
		OrderExpr("pps.sort_order ASC, pps.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("page_page_section query error: %w", err)
	}
	return rows, nil
}

func (r *BunBindingRepository) Replace(ctx context.Context, pageID uuid.UUID, bindings []*SectionBinding) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*SectionBinding)(nil)).
			Where("page_id = ?", pageID.String()).
			Exec(ctx); err != nil {
			return fmt.Errorf("page_page_section delete error: %w", err)
		}
		if len(bindings) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&bindings).Exec(ctx); err != nil {
			return fmt.Errorf("page_page_section insert error: %w", err)
		}
		return nil
	})
}

func (r *BunBindingRepository) DeleteForPage(ctx context.Context, pageID uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Model((*SectionBinding)(nil)).
		Where("page_id = ?", pageID.String()).
		Exec(ctx); err != nil {
		return fmt.Errorf("page_page_section delete error: %w", err)
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
