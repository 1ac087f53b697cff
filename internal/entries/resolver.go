package entries

import (
	"context"

	"github.com/goliatone/go-cms-modular/internal/render"
	"github.com/goliatone/go-cms-modular/internal/schema"
	"github.com/goliatone/go-cms-modular/internal/sections"
	"github.com/google/uuid"
)

// Label derives a human label for an entry: the first non-empty field value
// in declared order, stringified. Entries with no printable value fall back
// to "Entry #<id>".
func Label(entry *Entry, fields []schema.Field) string {
	if entry == nil {
		return ""
	}
	for _, field := range fields {
		value, ok := entry.Data[field.Name]
		if !ok || value == nil {
			continue
		}
		if text := schema.Stringify(value); text != "" {
			return text
		}
	}
	return "Entry #" + entry.ID.String()
}

func (s *service) PickerOptions(ctx context.Context, sourceModuleID uuid.UUID) ([]PickerOption, error) {
	if sourceModuleID == uuid.Nil {
		return nil, ErrModuleRequired
	}
	mod, err := s.modules.GetByID(ctx, sourceModuleID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListByModule(ctx, mod.ID, ListOptions{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	options := make([]PickerOption, 0, len(records))
	for _, record := range records {
		options = append(options, PickerOption{ID: record.ID, Label: Label(record, mod.Fields)})
	}
	return options, nil
}

func (s *service) MappingOptions(ctx context.Context, moduleID uuid.UUID) (map[uuid.UUID][]PickerOption, error) {
	if moduleID == uuid.Nil {
		return nil, ErrModuleRequired
	}
	mod, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]PickerOption, len(mod.MapToModuleIDs))
	for _, targetID := range mod.MapToModuleIDs {
		options, err := s.PickerOptions(ctx, targetID)
		if err != nil {
			return nil, err
		}
		out[targetID] = options
	}
	return out, nil
}

func (s *service) MappingState(ctx context.Context, moduleID, entryID uuid.UUID) (*MappingState, error) {
	record, mod, err := s.load(ctx, moduleID, entryID)
	if err != nil {
		return nil, err
	}
	pageIDs, err := s.relations.PageIDs(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	state := &MappingState{
		PageIDs: pageIDs,
		Related: make(map[uuid.UUID][]uuid.UUID, len(mod.MapToModuleIDs)),
	}
	for _, targetID := range mod.MapToModuleIDs {
		relatedIDs, err := s.relations.RelatedIDs(ctx, record.ID, targetID)
		if err != nil {
			return nil, err
		}
		state.Related[targetID] = relatedIDs
	}
	return state, nil
}

func (s *service) SyncMapping(ctx context.Context, req SyncMappingRequest) error {
	record, mod, err := s.load(ctx, req.ModuleID, req.EntryID)
	if err != nil {
		return err
	}

	// Validate every reference before touching a single link.
	for _, pageID := range req.PageIDs {
		if s.pages == nil {
			return &ReferenceError{Resource: "page", ID: pageID}
		}
		ok, err := s.pages.Exists(ctx, pageID)
		if err != nil {
			return err
		}
		if !ok {
			return &ReferenceError{Resource: "page", ID: pageID}
		}
	}

	allowed := make(map[uuid.UUID]bool, len(mod.MapToModuleIDs))
	for _, targetID := range mod.MapToModuleIDs {
		allowed[targetID] = true
	}
	for targetID, relatedIDs := range req.Related {
		if !allowed[targetID] {
			return &ReferenceError{Resource: "module", ID: targetID}
		}
		related, err := s.repo.GetByIDs(ctx, relatedIDs)
		if err != nil {
			return err
		}
		found := make(map[uuid.UUID]bool, len(related))
		for _, rel := range related {
			if rel.ModuleID != targetID {
				return &ReferenceError{Resource: "module entry", ID: rel.ID}
			}
			found[rel.ID] = true
		}
		for _, id := range relatedIDs {
			if !found[id] {
				return &ReferenceError{Resource: "module entry", ID: id}
			}
		}
	}

	now := s.now()
	pageLinks := make([]PageLink, 0, len(req.PageIDs))
	for _, pageID := range req.PageIDs {
		pageLinks = append(pageLinks, PageLink{
			ID:        s.id(),
			EntryID:   record.ID,
			PageID:    pageID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := s.relations.ReplacePages(ctx, record.ID, pageLinks); err != nil {
		return err
	}

	for _, targetID := range mod.MapToModuleIDs {
		relatedIDs := req.Related[targetID]
		links := make([]Relation, 0, len(relatedIDs))
		for _, relatedID := range relatedIDs {
			links = append(links, Relation{
				ID:              s.id(),
				EntryID:         record.ID,
				RelatedEntryID:  relatedID,
				RelatedModuleID: targetID,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
		}
		if err := s.relations.ReplaceRelated(ctx, record.ID, targetID, links); err != nil {
			return err
		}
	}

	s.logger.Info("entry mapping synced", "module", mod.Slug, "entry", record.ID,
		"pages", len(req.PageIDs), "targets", len(req.Related))
	return nil
}

func (s *service) GetData(ctx context.Context, moduleID uuid.UUID) ([]EntryData, error) {
	if moduleID == uuid.Nil {
		return nil, ErrModuleRequired
	}
	mod, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListByModule(ctx, mod.ID, ListOptions{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	sectionList, err := s.sections.GetByIDs(ctx, mod.PageSectionIDs)
	if err != nil {
		return nil, err
	}

	out := make([]EntryData, 0, len(records))
	for _, record := range records {
		row := EntryData{
			ID:   record.ID,
			Slug: record.Slug,
			Data: cloneData(record.Data),
		}
		if err := s.mergeRelatedData(ctx, record, row.Data); err != nil {
			return nil, err
		}
		sectionsHTML, err := renderSectionData(mod.PageSectionIDs, sectionList, record.SectionData)
		if err != nil {
			return nil, err
		}
		row.Sections = sectionsHTML
		out = append(out, row)
	}
	return out, nil
}

// mergeRelatedData appends each related entry's data under its module's slug
// key, grouping relations by the related module.
func (s *service) mergeRelatedData(ctx context.Context, record *Entry, data map[string]any) error {
	relatedIDs, err := s.relations.AllRelatedIDs(ctx, record.ID)
	if err != nil {
		return err
	}
	if len(relatedIDs) == 0 {
		return nil
	}
	related, err := s.repo.GetByIDs(ctx, relatedIDs)
	if err != nil {
		return err
	}

	slugByModule := map[uuid.UUID]string{}
	for _, rel := range related {
		moduleSlug, ok := slugByModule[rel.ModuleID]
		if !ok {
			relMod, err := s.modules.GetByID(ctx, rel.ModuleID)
			if err != nil {
				return err
			}
			moduleSlug = relMod.Slug
			slugByModule[rel.ModuleID] = moduleSlug
		}

		bucket, _ := data[moduleSlug].([]map[string]any)
		data[moduleSlug] = append(bucket, cloneData(rel.Data))
	}
	return nil
}

// renderSectionData renders every configured section keyed by identifier, in
// the module's declared order. Sections the entry carries no instance for
// render against an empty payload, so their placeholders stay verbatim.
// Instances referencing a section the module no longer configures are
// skipped.
func renderSectionData(order []uuid.UUID, sectionList []*sections.Section, sectionData []map[string]any) (map[string]string, error) {
	if len(sectionList) == 0 {
		return nil, nil
	}

	byID := make(map[string]*sections.Section, len(sectionList))
	for _, section := range sectionList {
		byID[section.ID.String()] = section
	}
	instanceByID := make(map[string]map[string]any, len(sectionData))
	for _, instance := range sectionData {
		instanceByID[schema.Stringify(instance["section_id"])] = instance
	}

	out := make(map[string]string, len(order))
	for _, id := range order {
		section, ok := byID[id.String()]
		if !ok {
			continue
		}
		payload := render.Payload{}
		if instance, ok := instanceByID[id.String()]; ok {
			payload.Data, _ = instance["data"].(map[string]any)
			payload.Items = schema.RepeatableItems(instance)
		}
		out[section.Identifier] = render.Render(section.HTMLTemplate, payload)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
