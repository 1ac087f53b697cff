package markdowncmd

import "testing"

func TestImportDirectoryCommandValidateRequiresDirectory(t *testing.T) {
	cmd := ImportDirectoryCommand{ModuleSlug: "posts"}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory missing")
	}

	cmd.Directory = "   "
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory blank")
	}

	cmd.Directory = "content"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when directory provided: %v", err)
	}
}

func TestImportDirectoryCommandValidateRequiresModuleSlug(t *testing.T) {
	cmd := ImportDirectoryCommand{Directory: "content"}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when module slug missing")
	}

	cmd.ModuleSlug = "posts"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when module slug provided: %v", err)
	}
}

func TestImportDirectoryCommandType(t *testing.T) {
	if got := (ImportDirectoryCommand{}).Type(); got != "cms.markdown.import_directory" {
		t.Fatalf("unexpected message type %q", got)
	}
}
