// Package models holds the shared data types flowkit works with.
package models

import "time"

// Note is a single Google Keep note as found in a Takeout export JSON file.
// The export schema is produced externally and consumed read-only.
type Note struct {
	// Title is the note title.
	Title string `json:"title"`
	// TextContent is the plain-text body.
	TextContent string `json:"textContent"`
	// Color is the note color name.
	Color string `json:"color"`
	// IsTrashed marks notes in the trash.
	IsTrashed bool `json:"isTrashed"`
	// IsPinned marks pinned notes.
	IsPinned bool `json:"isPinned"`
	// IsArchived marks archived notes.
	IsArchived bool `json:"isArchived"`
	// CreatedTimestampUsec is the creation time in microseconds since epoch.
	// Zero when absent.
	CreatedTimestampUsec int64 `json:"createdTimestampUsec"`
	// UserEditedTimestampUsec is the last-edit time in microseconds since
	// epoch. Zero when absent.
	UserEditedTimestampUsec int64 `json:"userEditedTimestampUsec"`
	// Attachments lists attached files, relative to the export root.
	Attachments []Attachment `json:"attachments"`
	// Labels lists the note's labels.
	Labels []Label `json:"labels"`
	// Annotations lists link annotations attached to the note.
	Annotations []Annotation `json:"annotations"`
}

// Attachment is a file attached to a note.
type Attachment struct {
	// FilePath is the attachment path relative to the export root.
	FilePath string `json:"filePath"`
	// Mimetype is the attachment content type as recorded by the export.
	Mimetype string `json:"mimetype"`
}

// Label is a user label on a note.
type Label struct {
	Name string `json:"name"`
}

// Annotation is a link annotation on a note.
type Annotation struct {
	Description string `json:"description"`
	Source      string `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
}

// TimeFromUsec converts a microsecond epoch timestamp to a time.Time.
// Returns nil for a zero (absent) timestamp.
func TimeFromUsec(usec int64) *time.Time {
	if usec == 0 {
		return nil
	}
	t := time.Unix(usec/1e6, (usec%1e6)*1e3)
	return &t
}
