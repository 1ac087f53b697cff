package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ModuleUUID derives the stable id for a module slug. Seed data and markdown
// imports use it so repeated runs converge on the same records.
func ModuleUUID(moduleSlug string) uuid.UUID {
	return UUID("go-cms-modular:module:" + strings.ToLower(strings.TrimSpace(moduleSlug)))
}

// EntryUUID derives the stable id for an entry within a module.
func EntryUUID(moduleID uuid.UUID, entrySlug string) uuid.UUID {
	return UUID("go-cms-modular:module_entry:" + moduleID.String() + ":" + strings.ToLower(strings.TrimSpace(entrySlug)))
}

// SectionUUID derives the stable id for a section identifier.
func SectionUUID(identifier string) uuid.UUID {
	return UUID("go-cms-modular:page_section:" + strings.ToLower(strings.TrimSpace(identifier)))
}

// PageUUID derives the stable id for a page slug.
func PageUUID(pageSlug string) uuid.UUID {
	return UUID("go-cms-modular:page:" + strings.ToLower(strings.TrimSpace(pageSlug)))
}
