package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/library"
)

type (
	noteRow struct {
		ID          string      `db:"id"`
		Title       string      `db:"title"`
		Description string      `db:"description"`
		FilePath    null.String `db:"file_path"`
		ClassID     string      `db:"class_id"`
		SubjectID   string      `db:"subject_id"`
		ChapterID   null.String `db:"chapter_id"`
		CreatedAt   time.Time   `db:"created_at"`
	}

	lectureRow struct {
		ID        string      `db:"id"`
		Title     string      `db:"title"`
		Type      string      `db:"type"`
		Link      string      `db:"link"`
		FilePath  null.String `db:"file_path"`
		IsPremium bool        `db:"is_premium"`
		ClassID   string      `db:"class_id"`
		SubjectID string      `db:"subject_id"`
		ChapterID null.String `db:"chapter_id"`
		CreatedAt time.Time   `db:"created_at"`
	}
)

func (r noteRow) unpack() library.Note {
	return library.Note{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		FilePath:    r.FilePath.Ptr(),
		ClassID:     r.ClassID,
		SubjectID:   r.SubjectID,
		ChapterID:   r.ChapterID.Ptr(),
		CreatedAt:   r.CreatedAt,
	}
}

func (r lectureRow) unpack() library.Lecture {
	return library.Lecture{
		ID:        r.ID,
		Title:     r.Title,
		Type:      r.Type,
		Link:      r.Link,
		FilePath:  r.FilePath.Ptr(),
		IsPremium: r.IsPremium,
		ClassID:   r.ClassID,
		SubjectID: r.SubjectID,
		ChapterID: r.ChapterID.Ptr(),
		CreatedAt: r.CreatedAt,
	}
}

type libraryRepository struct {
	exec core.DBExecutor
}

var _ library.Repository = (*libraryRepository)(nil) // interface compliance check

func NewLibraryRepository(exec core.DBExecutor) *libraryRepository {
	return &libraryRepository{exec: exec}
}

func (repo libraryRepository) CreateNote(ctx context.Context, note library.Note) (library.Note, error) {
	note.ID = uuid.New().String()
	const q = `
		INSERT INTO note (id, title, description, file_path, class_id, subject_id, chapter_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.exec.ExecContext(ctx, q,
		note.ID, note.Title, note.Description, null.StringFromPtr(note.FilePath),
		note.ClassID, note.SubjectID, null.StringFromPtr(note.ChapterID), note.CreatedAt.UTC())
	if err != nil {
		return library.Note{}, errors.Wrap(err, "inserting note")
	}
	return note, nil
}

func (repo libraryRepository) QueryNotes(ctx context.Context, classID, subjectID string) ([]library.Note, error) {
	var rows []noteRow
	const q = `SELECT * FROM note WHERE class_id = $1 AND subject_id = $2 ORDER BY created_at`
	if err := repo.exec.SelectContext(ctx, &rows, q, classID, subjectID); err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	notes := make([]library.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, r.unpack())
	}
	return notes, nil
}

func (repo libraryRepository) GetNoteByID(ctx context.Context, id string) (library.Note, error) {
	var r noteRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT * FROM note WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return library.Note{}, library.ErrNoteNotFound
		}
		return library.Note{}, errors.Wrap(err, "getting note")
	}
	return r.unpack(), nil
}

func (repo libraryRepository) DeleteNotesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM note WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting notes")
	}
	return nil
}

func (repo libraryRepository) CreateLecture(ctx context.Context, lec library.Lecture) (library.Lecture, error) {
	lec.ID = uuid.New().String()
	const q = `
		INSERT INTO lecture (id, title, type, link, file_path, is_premium, class_id, subject_id, chapter_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.exec.ExecContext(ctx, q,
		lec.ID, lec.Title, lec.Type, lec.Link, null.StringFromPtr(lec.FilePath), lec.IsPremium,
		lec.ClassID, lec.SubjectID, null.StringFromPtr(lec.ChapterID), lec.CreatedAt.UTC())
	if err != nil {
		return library.Lecture{}, errors.Wrap(err, "inserting lecture")
	}
	return lec, nil
}

func (repo libraryRepository) QueryLectures(ctx context.Context, classID, subjectID string) ([]library.Lecture, error) {
	var rows []lectureRow
	const q = `SELECT * FROM lecture WHERE class_id = $1 AND subject_id = $2 ORDER BY created_at`
	if err := repo.exec.SelectContext(ctx, &rows, q, classID, subjectID); err != nil {
		return nil, errors.Wrap(err, "querying lectures")
	}
	lecs := make([]library.Lecture, 0, len(rows))
	for _, r := range rows {
		lecs = append(lecs, r.unpack())
	}
	return lecs, nil
}

func (repo libraryRepository) GetLectureByID(ctx context.Context, id string) (library.Lecture, error) {
	var r lectureRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT * FROM lecture WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return library.Lecture{}, library.ErrLectureNotFound
		}
		return library.Lecture{}, errors.Wrap(err, "getting lecture")
	}
	return r.unpack(), nil
}

func (repo libraryRepository) DeleteLecturesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM lecture WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting lectures")
	}
	return nil
}
