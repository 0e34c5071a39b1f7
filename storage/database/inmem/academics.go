package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahub/darasa/core/academics"
)

type academicsRepository struct {
	classes  *classTable
	subjects *subjectTable
	chapters *chapterTable
}

var _ academics.Repository = (*academicsRepository)(nil) // interface compliance check

func NewAcademicsRepository(db *DB) *academicsRepository {
	return &academicsRepository{
		classes:  db.class,
		subjects: db.subject,
		chapters: db.chapter,
	}
}

func (repo *academicsRepository) CreateClass(ctx context.Context, cls academics.Class) (academics.Class, error) {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	cls.ID = uuid.New().String()
	repo.classes.rows = append(repo.classes.rows, &cls)
	return cls, nil
}

func (repo *academicsRepository) QueryClasses(ctx context.Context) ([]academics.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	classes := make([]academics.Class, 0, len(repo.classes.rows))
	for _, cls := range repo.classes.rows {
		classes = append(classes, *cls)
	}
	return classes, nil
}

func (repo *academicsRepository) GetClassByID(ctx context.Context, id string) (academics.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	for _, cls := range repo.classes.rows {
		if cls.ID == id {
			return *cls, nil
		}
	}
	return academics.Class{}, academics.ErrClassNotFound
}

func (repo *academicsRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	for _, id := range ids {
		for i, cls := range repo.classes.rows {
			if cls.ID == id {
				repo.classes.rows = append(repo.classes.rows[:i], repo.classes.rows[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (repo *academicsRepository) CreateSubject(ctx context.Context, sub academics.Subject) (academics.Subject, error) {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	sub.ID = uuid.New().String()
	repo.subjects.rows = append(repo.subjects.rows, &sub)
	return sub, nil
}

func (repo *academicsRepository) QuerySubjects(ctx context.Context) ([]academics.Subject, error) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	subs := make([]academics.Subject, 0, len(repo.subjects.rows))
	for _, sub := range repo.subjects.rows {
		subs = append(subs, *sub)
	}
	return subs, nil
}

func (repo *academicsRepository) GetSubjectByID(ctx context.Context, id string) (academics.Subject, error) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	for _, sub := range repo.subjects.rows {
		if sub.ID == id {
			return *sub, nil
		}
	}
	return academics.Subject{}, academics.ErrSubjectNotFound
}

func (repo *academicsRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	for _, id := range ids {
		for i, sub := range repo.subjects.rows {
			if sub.ID == id {
				repo.subjects.rows = append(repo.subjects.rows[:i], repo.subjects.rows[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (repo *academicsRepository) CreateChapter(ctx context.Context, chap academics.Chapter) (academics.Chapter, error) {
	repo.chapters.Lock()
	defer repo.chapters.Unlock()

	chap.ID = uuid.New().String()
	repo.chapters.rows = append(repo.chapters.rows, &chap)
	return chap, nil
}

func (repo *academicsRepository) QueryChapters(ctx context.Context, classID, subjectID string) ([]academics.Chapter, error) {
	repo.chapters.RLock()
	defer repo.chapters.RUnlock()

	var chaps []academics.Chapter
	for _, chap := range repo.chapters.rows {
		if chap.ClassID == classID && chap.SubjectID == subjectID {
			chaps = append(chaps, *chap)
		}
	}
	sort.SliceStable(chaps, func(i, j int) bool {
		if chaps[i].Order != chaps[j].Order {
			return chaps[i].Order < chaps[j].Order
		}
		return chaps[i].CreatedAt.Before(chaps[j].CreatedAt)
	})
	return chaps, nil
}

func (repo *academicsRepository) GetChapterByID(ctx context.Context, id string) (academics.Chapter, error) {
	repo.chapters.RLock()
	defer repo.chapters.RUnlock()

	for _, chap := range repo.chapters.rows {
		if chap.ID == id {
			return *chap, nil
		}
	}
	return academics.Chapter{}, academics.ErrChapterNotFound
}

func (repo *academicsRepository) DeleteChaptersByID(ctx context.Context, ids ...string) error {
	repo.chapters.Lock()
	defer repo.chapters.Unlock()

	for _, id := range ids {
		for i, chap := range repo.chapters.rows {
			if chap.ID == id {
				repo.chapters.rows = append(repo.chapters.rows[:i], repo.chapters.rows[i+1:]...)
				break
			}
		}
	}
	return nil
}
