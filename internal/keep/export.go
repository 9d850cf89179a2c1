// Package keep reads Google Keep Takeout exports and summarizes the
// notes they contain.
package keep

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ShayCichocki/flowkit/pkg/models"
)

// ProcessedNote is the flattened form of a note handed to the summarizer.
type ProcessedNote struct {
	// Path is the source JSON file path.
	Path string
	// Title is the note title.
	Title string
	// TextContent is the plain-text body.
	TextContent string
	// Created is the creation time, nil when the export omits it.
	Created *time.Time
	// Edited is the last-edit time, nil when the export omits it.
	Edited *time.Time
	// Attachments are attachment paths resolved against the export root.
	Attachments []string
	// IsTrashed marks notes in the trash.
	IsTrashed bool
	// IsArchived marks archived notes.
	IsArchived bool
}

// HasContent reports whether the note has non-blank text.
func (n *ProcessedNote) HasContent() bool {
	return strings.TrimSpace(n.TextContent) != ""
}

// ParseNote decodes a single exported note.
func ParseNote(data []byte) (*models.Note, error) {
	var note models.Note
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, fmt.Errorf("parse note: %w", err)
	}
	return &note, nil
}

// LoadNote reads and decodes the note at the given path.
func LoadNote(path string) (*models.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read note %s: %w", path, err)
	}
	return ParseNote(data)
}

// Process flattens a note for the summarizer, resolving attachment paths
// against the export root.
func Process(note *models.Note, exportRoot, path string) *ProcessedNote {
	attachments := make([]string, 0, len(note.Attachments))
	for _, att := range note.Attachments {
		attachments = append(attachments, filepath.Join(exportRoot, att.FilePath))
	}

	return &ProcessedNote{
		Path:        path,
		Title:       note.Title,
		TextContent: note.TextContent,
		Created:     models.TimeFromUsec(note.CreatedTimestampUsec),
		Edited:      models.TimeFromUsec(note.UserEditedTimestampUsec),
		Attachments: attachments,
		IsTrashed:   note.IsTrashed,
		IsArchived:  note.IsArchived,
	}
}

// WalkExport visits every JSON note file under root, depth first.
// Files that fail to parse are reported to fn with a nil note and the
// parse error so callers can decide whether to continue; a non-nil
// return from fn aborts the walk.
func WalkExport(root string, fn func(path string, note *models.Note, err error) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("export root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("export root %s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		note, loadErr := LoadNote(path)
		return fn(path, note, loadErr)
	})
}
