package academics

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrClassNotFound   = errors.New("class not found")
	ErrSubjectNotFound = errors.New("subject not found")
	ErrChapterNotFound = errors.New("chapter not found")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryClasses(ctx context.Context) ([]Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		DeleteClassesByID(ctx context.Context, ids ...string) error

		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		QuerySubjects(ctx context.Context) ([]Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		DeleteSubjectsByID(ctx context.Context, ids ...string) error

		CreateChapter(ctx context.Context, chap Chapter) (Chapter, error)
		// QueryChapters returns chapters of a Class+Subject ordered by
		// `order ASC, created_at ASC`.
		QueryChapters(ctx context.Context, classID, subjectID string) ([]Chapter, error)
		GetChapterByID(ctx context.Context, id string) (Chapter, error)
		DeleteChaptersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	cls := Class{
		Title:     nc.Title,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) QueryClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx)
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

// DeleteClasses is a no-op for ids that no longer exist.
func (svc *Service) DeleteClasses(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteClassesByID(ctx, ids...)
}

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	sub := Subject{
		Name:      ns.Name,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateSubject(ctx, sub)
}

func (svc *Service) QuerySubjects(ctx context.Context) ([]Subject, error) {
	return svc.repo.QuerySubjects(ctx)
}

func (svc *Service) GetSubject(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *Service) DeleteSubjects(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ctx, ids...)
}

func (svc *Service) CreateChapter(ctx context.Context, nc NewChapter) (Chapter, error) {
	if _, err := svc.repo.GetClassByID(ctx, nc.ClassID); err != nil {
		return Chapter{}, err
	}
	if _, err := svc.repo.GetSubjectByID(ctx, nc.SubjectID); err != nil {
		return Chapter{}, err
	}

	chap := Chapter{
		Title:     nc.Title,
		Order:     nc.Order,
		ClassID:   nc.ClassID,
		SubjectID: nc.SubjectID,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateChapter(ctx, chap)
}

// QueryChapters requires both parent ids; an empty set is returned when either
// is missing.
func (svc *Service) QueryChapters(ctx context.Context, classID, subjectID string) ([]Chapter, error) {
	if classID == "" || subjectID == "" {
		return []Chapter{}, nil
	}
	chaps, err := svc.repo.QueryChapters(ctx, classID, subjectID)
	if err != nil {
		return nil, err
	}
	if chaps == nil {
		chaps = []Chapter{}
	}
	return chaps, nil
}

func (svc *Service) GetChapter(ctx context.Context, id string) (Chapter, error) {
	return svc.repo.GetChapterByID(ctx, id)
}

func (svc *Service) DeleteChapters(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteChaptersByID(ctx, ids...)
}
