package keep

import (
	"path/filepath"
	"strings"
)

// mimeTypes maps the image extensions Keep exports to content types.
var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// IsImageAttachment reports whether the file extension is one the
// summarizer will attach.
func IsImageAttachment(path string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// MIMEType resolves an attachment path to its content type, defaulting
// to image/png for unrecognized extensions.
func MIMEType(path string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "image/png"
}
