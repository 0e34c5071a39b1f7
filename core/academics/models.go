package academics

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahub/darasa/core"
)

type Class struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Chapter is an ordered subdivision of a Subject within a Class.
// Order is a display sort key, not unique.
type Chapter struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	ClassID   string    `json:"class_id"`
	SubjectID string    `json:"subject_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewClass struct {
	Title string `json:"title" validate:"required"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	return validate.Struct(nc)
}

type NewSubject struct {
	Name string `json:"name" validate:"required"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return validate.Struct(ns)
}

type NewChapter struct {
	Title     string `json:"title" validate:"required"`
	Order     int    `json:"order" validate:"gte=0"`
	ClassID   string `json:"class_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
}

func (nc *NewChapter) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	return validate.Struct(nc)
}
