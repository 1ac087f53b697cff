package markdowncmd

import (
	"context"

	"github.com/goliatone/go-cms-modular/internal/commands"
	"github.com/goliatone/go-cms-modular/internal/logging"
	"github.com/goliatone/go-cms-modular/internal/markdown"
	"github.com/goliatone/go-cms-modular/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const importOperation = "markdown.import_directory"

var _ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)

// ImportDirectoryHandler orchestrates Markdown directory imports via the
// shared command handler foundation.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler creates a handler bound to the supplied importer.
func NewImportDirectoryHandler(importer *markdown.Importer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		result, err := importer.ImportDirectory(ctx, msg.Directory, markdown.ImportOptions{
			ModuleSlug: msg.ModuleSlug,
			BodyField:  msg.BodyField,
			DryRun:     msg.DryRun,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"created_count": len(result.Created),
			"updated_count": len(result.Updated),
			"skipped_count": len(result.Skipped),
			"error_count":   len(result.Errors),
			"dry_run":       msg.DryRun,
		}).Info("markdown.command.import_directory.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
