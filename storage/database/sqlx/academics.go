package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/academics"
)

type (
	classRow struct {
		ID        string    `db:"id"`
		Title     string    `db:"title"`
		CreatedAt time.Time `db:"created_at"`
	}

	subjectRow struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}

	chapterRow struct {
		ID        string    `db:"id"`
		Title     string    `db:"title"`
		Order     int       `db:"order"`
		ClassID   string    `db:"class_id"`
		SubjectID string    `db:"subject_id"`
		CreatedAt time.Time `db:"created_at"`
	}
)

func (r classRow) unpack() academics.Class {
	return academics.Class{ID: r.ID, Title: r.Title, CreatedAt: r.CreatedAt}
}

func (r subjectRow) unpack() academics.Subject {
	return academics.Subject{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

func (r chapterRow) unpack() academics.Chapter {
	return academics.Chapter{
		ID:        r.ID,
		Title:     r.Title,
		Order:     r.Order,
		ClassID:   r.ClassID,
		SubjectID: r.SubjectID,
		CreatedAt: r.CreatedAt,
	}
}

type academicsRepository struct {
	exec core.DBExecutor
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(exec core.DBExecutor) *academicsRepository {
	return &academicsRepository{exec: exec}
}

func (repo academicsRepository) CreateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	cls.ID = uuid.New().String()
	const q = `INSERT INTO class (id, title, created_at) VALUES ($1, $2, $3)`
	if _, err := repo.exec.ExecContext(ctx, q, cls.ID, cls.Title, cls.CreatedAt.UTC()); err != nil {
		return academics.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo academicsRepository) QueryClasses(ctx context.Context) ([]academics.Class, error) {
	var rows []classRow
	if err := repo.exec.SelectContext(ctx, &rows, `SELECT * FROM class ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]academics.Class, 0, len(rows))
	for _, r := range rows {
		classes = append(classes, r.unpack())
	}
	return classes, nil
}

func (repo academicsRepository) GetClassByID(ctx context.Context, id string) (academics.Class, error) {
	var r classRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT * FROM class WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return academics.Class{}, academics.ErrClassNotFound
		}
		return academics.Class{}, errors.Wrap(err, "getting class")
	}
	return r.unpack(), nil
}

func (repo academicsRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM class WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	return nil
}

func (repo academicsRepository) CreateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	sub.ID = uuid.New().String()
	const q = `INSERT INTO subject (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := repo.exec.ExecContext(ctx, q, sub.ID, sub.Name, sub.CreatedAt.UTC()); err != nil {
		return academics.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

func (repo academicsRepository) QuerySubjects(ctx context.Context) ([]academics.Subject, error) {
	var rows []subjectRow
	if err := repo.exec.SelectContext(ctx, &rows, `SELECT * FROM subject ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]academics.Subject, 0, len(rows))
	for _, r := range rows {
		subjects = append(subjects, r.unpack())
	}
	return subjects, nil
}

func (repo academicsRepository) GetSubjectByID(ctx context.Context, id string) (academics.Subject, error) {
	var r subjectRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT * FROM subject WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return academics.Subject{}, academics.ErrSubjectNotFound
		}
		return academics.Subject{}, errors.Wrap(err, "getting subject")
	}
	return r.unpack(), nil
}

func (repo academicsRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM subject WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting subjects")
	}
	return nil
}

func (repo academicsRepository) CreateChapter(ctx context.Context, chap academics.Chapter) (academics.Chapter, error) {
	chap.ID = uuid.New().String()
	const q = `INSERT INTO chapter (id, title, "order", class_id, subject_id, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := repo.exec.ExecContext(ctx, q,
		chap.ID, chap.Title, chap.Order, chap.ClassID, chap.SubjectID, chap.CreatedAt.UTC()); err != nil {
		return academics.Chapter{}, errors.Wrap(err, "inserting chapter")
	}
	return chap, nil
}

func (repo academicsRepository) QueryChapters(ctx context.Context, classID, subjectID string) ([]academics.Chapter, error) {
	var rows []chapterRow
	const q = `SELECT * FROM chapter WHERE class_id = $1 AND subject_id = $2 ORDER BY "order", created_at`
	if err := repo.exec.SelectContext(ctx, &rows, q, classID, subjectID); err != nil {
		return nil, errors.Wrap(err, "querying chapters")
	}
	chaps := make([]academics.Chapter, 0, len(rows))
	for _, r := range rows {
		chaps = append(chaps, r.unpack())
	}
	return chaps, nil
}

func (repo academicsRepository) GetChapterByID(ctx context.Context, id string) (academics.Chapter, error) {
	var r chapterRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT * FROM chapter WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return academics.Chapter{}, academics.ErrChapterNotFound
		}
		return academics.Chapter{}, errors.Wrap(err, "getting chapter")
	}
	return r.unpack(), nil
}

func (repo academicsRepository) DeleteChaptersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.exec.ExecContext(ctx, `DELETE FROM chapter WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "deleting chapters")
	}
	return nil
}
