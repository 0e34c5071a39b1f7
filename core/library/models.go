package library

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahub/darasa/core"
)

// Lecture types
const (
	LectureTypeLink = "link"
	LectureTypeFile = "file"
)

// Note is a study document within a Class+Subject, optionally grouped under a
// Chapter. FilePath is empty for purely descriptive notes.
type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FilePath    *string   `json:"file_path,omitempty"`
	FileURL     string    `json:"file_url,omitempty"`
	ClassID     string    `json:"class_id"`
	SubjectID   string    `json:"subject_id"`
	ChapterID   *string   `json:"chapter_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// Lecture is either an external link or an uploaded file; Type determines which
// of Link/FilePath is populated.
type Lecture struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"`
	FilePath  *string   `json:"file_path,omitempty"`
	FileURL   string    `json:"file_url,omitempty"`
	IsPremium bool      `json:"is_premium"`
	ClassID   string    `json:"class_id"`
	SubjectID string    `json:"subject_id"`
	ChapterID *string   `json:"chapter_id,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewNote struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	FilePath    *string `json:"file_path"`
	ClassID     string  `json:"class_id" validate:"required"`
	SubjectID   string  `json:"subject_id" validate:"required"`
	ChapterID   *string `json:"chapter_id"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Description = core.CleanString(nn.Description)
	return validate.Struct(nn)
}

type NewLecture struct {
	Title     string  `json:"title" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=link file"`
	Link      string  `json:"link" validate:"required_if=Type link,omitempty,url"`
	FilePath  *string `json:"file_path"`
	IsPremium bool    `json:"is_premium"`
	ClassID   string  `json:"class_id" validate:"required"`
	SubjectID string  `json:"subject_id" validate:"required"`
	ChapterID *string `json:"chapter_id"`
}

func (nl *NewLecture) Validate(validate *validator.Validate) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Link = core.CleanString(nl.Link)
	if err := validate.Struct(nl); err != nil {
		return err
	}
	if nl.Type == LectureTypeFile && (nl.FilePath == nil || *nl.FilePath == "") {
		return core.NewValidationError(nil, core.FieldError{Field: "file_path", Error: "this field is required"})
	}
	return nil
}

// ChapterGroup is a chapter-titled bucket of items, as rendered on the
// class/subject pages. Items lacking a chapter land in the trailing
// GeneralBucket.
type (
	NoteGroup struct {
		Chapter string `json:"chapter"`
		Notes   []Note `json:"notes"`
	}

	LectureGroup struct {
		Chapter  string    `json:"chapter"`
		Lectures []Lecture `json:"lectures"`
	}
)

const GeneralBucket = "General"
