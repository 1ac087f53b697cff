package cms

import (
	markdowncmd "github.com/goliatone/go-cms-modular/internal/commands/markdown"
)

// ImportDirectoryCommand is the message triggering a markdown directory
// import. Hosts dispatch it through the handler returned by
// Engine.ImportDirectoryHandler.
type ImportDirectoryCommand = markdowncmd.ImportDirectoryCommand

// ImportDirectoryHandler executes ImportDirectoryCommand messages.
type ImportDirectoryHandler = markdowncmd.ImportDirectoryHandler

// CommandRegistry records command handlers so hosts can expose them via CLI
// or cron schedulers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// ImportDirectoryHandler returns the markdown import command handler wired to
// the engine's importer.
func (e *Engine) ImportDirectoryHandler() *ImportDirectoryHandler {
	return e.importHandler
}

// RegisterCommands hands every engine command handler to the registry.
func (e *Engine) RegisterCommands(registry CommandRegistry) error {
	return registry.RegisterCommand(e.importHandler)
}
