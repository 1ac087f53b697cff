package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const importDirectoryMessageType = "cms.markdown.import_directory"

// ImportDirectoryCommand triggers a filesystem walk for Markdown documents
// under the provided Directory, importing each as an entry of the target
// module.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load
	// Markdown files from.
	Directory string `json:"directory"`
	// ModuleSlug selects the module imported entries belong to.
	ModuleSlug string `json:"module_slug"`
	// BodyField names the entry field receiving the rendered body; empty
	// uses the importer default.
	BodyField string `json:"body_field,omitempty"`
	// DryRun toggles preview mode to collect import diffs without persisting
	// changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory and module inputs are present before handlers
// execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(notBlank("cms.markdown.import_directory.directory_required", "directory is required"))),
		validation.Field(&cmd.ModuleSlug, validation.Required, validation.By(notBlank("cms.markdown.import_directory.module_required", "module slug is required"))),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
