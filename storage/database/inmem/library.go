package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/library"
)

type libraryRepository struct {
	notes    *noteTable
	lectures *lectureTable
}

var _ library.Repository = (*libraryRepository)(nil) // interface compliance check

func NewLibraryRepository(db *DB) *libraryRepository {
	return &libraryRepository{
		notes:    db.note,
		lectures: db.lecture,
	}
}

func (repo *libraryRepository) CreateNote(ctx context.Context, note library.Note) (library.Note, error) {
	repo.notes.Lock()
	defer repo.notes.Unlock()

	note.ID = uuid.New().String()
	repo.notes.rows = append(repo.notes.rows, &note)
	return note, nil
}

func (repo *libraryRepository) QueryNotes(ctx context.Context, classID, subjectID string) ([]library.Note, error) {
	repo.notes.RLock()
	defer repo.notes.RUnlock()

	var notes []library.Note
	for _, note := range repo.notes.rows {
		if note.ClassID == classID && note.SubjectID == subjectID {
			notes = append(notes, *note)
		}
	}
	return notes, nil
}

func (repo *libraryRepository) GetNoteByID(ctx context.Context, id string) (library.Note, error) {
	repo.notes.RLock()
	defer repo.notes.RUnlock()

	for _, note := range repo.notes.rows {
		if note.ID == id {
			return *note, nil
		}
	}
	return library.Note{}, library.ErrNoteNotFound
}

func (repo *libraryRepository) DeleteNotesByID(ctx context.Context, ids ...string) error {
	repo.notes.Lock()
	defer repo.notes.Unlock()

	for _, id := range ids {
		for i, note := range repo.notes.rows {
			if note.ID == id {
				repo.notes.rows = append(repo.notes.rows[:i], repo.notes.rows[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (repo *libraryRepository) CreateLecture(ctx context.Context, lec library.Lecture) (library.Lecture, error) {
	repo.lectures.Lock()
	defer repo.lectures.Unlock()

	lec.ID = uuid.New().String()
	repo.lectures.rows = append(repo.lectures.rows, &lec)
	return lec, nil
}

func (repo *libraryRepository) QueryLectures(ctx context.Context, classID, subjectID string) ([]library.Lecture, error) {
	repo.lectures.RLock()
	defer repo.lectures.RUnlock()

	var lecs []library.Lecture
	for _, lec := range repo.lectures.rows {
		if lec.ClassID == classID && lec.SubjectID == subjectID {
			lecs = append(lecs, *lec)
		}
	}
	return lecs, nil
}

func (repo *libraryRepository) GetLectureByID(ctx context.Context, id string) (library.Lecture, error) {
	repo.lectures.RLock()
	defer repo.lectures.RUnlock()

	for _, lec := range repo.lectures.rows {
		if lec.ID == id {
			return *lec, nil
		}
	}
	return library.Lecture{}, library.ErrLectureNotFound
}

func (repo *libraryRepository) DeleteLecturesByID(ctx context.Context, ids ...string) error {
	repo.lectures.Lock()
	defer repo.lectures.Unlock()

	for _, id := range ids {
		for i, lec := range repo.lectures.rows {
			if lec.ID == id {
				repo.lectures.rows = append(repo.lectures.rows[:i], repo.lectures.rows[i+1:]...)
				break
			}
		}
	}
	return nil
}
