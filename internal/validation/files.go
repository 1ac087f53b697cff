package validation

import (
	"strings"

	"github.com/goliatone/go-cms-modular/pkg/interfaces"
)

// MaxFileSizeKB is the upload size ceiling. Error messages cite it verbatim
// so callers can surface the concrete limit.
const MaxFileSizeKB = 3000

// allowedMIMETypes is the closed allow-list for file and image uploads.
var allowedMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/svg+xml",
	"image/webp",
	"video/mp4",
	"video/x-msvideo",
	"video/quicktime",
	"image/x-icon",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// AllowedMIMETypes returns a copy of the upload allow-list.
func AllowedMIMETypes() []string {
	out := make([]string, len(allowedMIMETypes))
	copy(out, allowedMIMETypes)
	return out
}

func mimeAllowed(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range allowedMIMETypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// checkUpload validates a pending upload against the MIME allow-list and the
// size ceiling, appending field-scoped messages that name the violated limit.
func checkUpload(errs FieldErrors, path string, upload *interfaces.FileUpload) {
	if upload == nil {
		return
	}
	if !mimeAllowed(upload.ContentType) {
		errs.Addf(path, "file type %q is not allowed (allowed: %s)",
			upload.ContentType, strings.Join(allowedMIMETypes, ", "))
	}
	if upload.Size > MaxFileSizeKB*1024 {
		errs.Addf(path, "file must not exceed %d KB", MaxFileSizeKB)
	}
}
