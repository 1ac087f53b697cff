package entries

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

// NewEntryRepository builds the generic bun-backed repository for entries.
func NewEntryRepository(db *bun.DB) repository.Repository[*Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Entry]{
		NewRecord: func() *Entry { return &Entry{} },
		GetID: func(e *Entry) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Entry, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(e *Entry) string {
			return e.Slug
		},
	})
}

// BunRepository implements Repository on bun with optional read caching.
type BunRepository struct {
	repo repository.Repository[*Entry]
}

// NewBunRepository creates an entry repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates an entry repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewEntryRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *Entry) (*Entry, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "module_entry", record.Slug)
	}
	return created, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "module_entry", id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, moduleID uuid.UUID, slug string) (*Entry, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("?TableAlias.module_id = ?", moduleID.String()).
				Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "module_entry", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "module_entry", Key: slug}
	}
	return records[0], nil
}

func (r *BunRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = id.String()
	}
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.id IN (?)", bun.In(values))
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "module_entry", "")
	}
	return records, nil
}

func (r *BunRepository) ListByModule(ctx context.Context, moduleID uuid.UUID, opts ListOptions) ([]*Entry, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("?TableAlias.module_id = ?", moduleID.String())
			if opts.ActiveOnly {
				q = q.Where("?TableAlias.is_active = ?", true)
			}
			if opts.Search != "" {
				// Data is serialized JSON, so a text match covers every field
				// value in one predicate.
				term := "%" + opts.Search + "%"
				q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.
						Where("?TableAlias.slug LIKE ?", term).
						WhereOr("CAST(?TableAlias.data AS TEXT) LIKE ?", term)
				})
			}
			return q.OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.id ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "module_entry", moduleID.String())
	}
	return records, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Entry) (*Entry, error) {
	updated, err := r.repo.Update(ctx, record, repository.UpdateByID(record.ID.String()))
	if err != nil {
		return nil, mapRepositoryError(err, "module_entry", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Entry{ID: id}); err != nil {
		return mapRepositoryError(err, "module_entry", id.String())
	}
	return nil
}

// BunRelationRepository stores the page and related-entry join rows directly
// on bun; replace writes run inside a transaction.
type BunRelationRepository struct {
	db *bun.DB
}

// NewBunRelationRepository creates the relation repository.
func NewBunRelationRepository(db *bun.DB) *BunRelationRepository {
	return &BunRelationRepository{db: db}
}

func (r *BunRelationRepository) PageIDs(ctx context.Context, entryID uuid.UUID) ([]uuid.UUID, error) {
	var links []PageLink
	err := r.db.NewSelect().
		Model(&links).
		Where("?TableAlias.module_entry_id = ?", entryID.String()).
		Order("mep.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("module_entry_page query error: %w", err)
	}
	out := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		out = append(out, link.PageID)
	}
	return out, nil
}

func (r *BunRelationRepository) ReplacePages(ctx context.Context, entryID uuid.UUID, links []PageLink) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*PageLink)(nil)).
			Where("module_entry_id = ?", entryID.String()).
			Exec(ctx); err != nil {
			return fmt.Errorf("module_entry_page delete error: %w", err)
		}
		if len(links) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
			return fmt.Errorf("module_entry_page insert error: %w", err)
		}
		return nil
	})
}

func (r *BunRelationRepository) RelatedIDs(ctx context.Context, entryID, relatedModuleID uuid.UUID) ([]uuid.UUID, error) {
	var links []Relation
	err := r.db.NewSelect().
		Model(&links).
		Where("?TableAlias.module_entry_id = ?", entryID.String()).
		Where("?TableAlias.related_module_id = ?", relatedModuleID.String()).
		Order("mem.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("module_entry_mapping query error: %w", err)
	}
	out := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		out = append(out, link.RelatedEntryID)
	}
	return out, nil
}

func (r *BunRelationRepository) AllRelatedIDs(ctx context.Context, entryID uuid.UUID) ([]uuid.UUID, error) {
	var links []Relation
	err := r.db.NewSelect().
		Model(&links).
		Where("?TableAlias.module_entry_id = ?", entryID.String()).
		Order("mem.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("module_entry_mapping query error: %w", err)
	}
	out := make([]uuid.UUID, 0, len(links))
	for _, link := range links {
		out = append(out, link.RelatedEntryID)
	}
	return out, nil
}

func (r *BunRelationRepository) ReplaceRelated(ctx context.Context, entryID, relatedModuleID uuid.UUID, links []Relation) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*Relation)(nil)).
			Where("module_entry_id = ?", entryID.String()).
			Where("related_module_id = ?", relatedModuleID.String()).
			Exec(ctx); err != nil {
			return fmt.Errorf("module_entry_mapping delete error: %w", err)
		}
		if len(links) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
			return fmt.Errorf("module_entry_mapping insert error: %w", err)
		}
		return nil
	})
}

func (r *BunRelationRepository) DeleteForEntry(ctx context.Context, entryID uuid.UUID) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*PageLink)(nil)).
			Where("module_entry_id = ?", entryID.String()).
			Exec(ctx); err != nil {
			return fmt.Errorf("module_entry_page delete error: %w", err)
		}
		if _, err := tx.NewDelete().
			Model((*Relation)(nil)).
			Where("module_entry_id = ?", entryID.String()).
			Exec(ctx); err != nil {
			return fmt.Errorf("module_entry_mapping delete error: %w", err)
		}
		return nil
	})
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
