package library

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/academics"
)

var (
	// errors
	ErrNoteNotFound    = errors.New("note not found")
	ErrLectureNotFound = errors.New("lecture not found")
)

type (
	Repository interface {
		CreateNote(ctx context.Context, note Note) (Note, error)
		// QueryNotes returns notes of a Class+Subject in creation order.
		QueryNotes(ctx context.Context, classID, subjectID string) ([]Note, error)
		GetNoteByID(ctx context.Context, id string) (Note, error)
		DeleteNotesByID(ctx context.Context, ids ...string) error

		CreateLecture(ctx context.Context, lec Lecture) (Lecture, error)
		QueryLectures(ctx context.Context, classID, subjectID string) ([]Lecture, error)
		GetLectureByID(ctx context.Context, id string) (Lecture, error)
		DeleteLecturesByID(ctx context.Context, ids ...string) error
	}

	// ChapterDirectory resolves the chapter buckets items are grouped under;
	// satisfied by academics.Service.
	ChapterDirectory interface {
		QueryChapters(ctx context.Context, classID, subjectID string) ([]academics.Chapter, error)
	}

	Service struct {
		repo     Repository
		chapters ChapterDirectory
		conf     *core.Config
	}
)

func NewService(repo Repository, chapters ChapterDirectory, conf *core.Config) *Service {
	return &Service{
		repo:     repo,
		chapters: chapters,
		conf:     conf,
	}
}

// mediaURL resolves a stored relative file path against the configured media
// origin; a single origin serves all uploads.
func (svc *Service) mediaURL(fp *string) string {
	if fp == nil || *fp == "" {
		return ""
	}
	return strings.TrimRight(svc.conf.Server.MediaBaseURL, "/") + "/" + strings.TrimLeft(*fp, "/")
}

func (svc *Service) CreateNote(ctx context.Context, nn NewNote) (Note, error) {
	note := Note{
		Title:       nn.Title,
		Description: nn.Description,
		FilePath:    nn.FilePath,
		ClassID:     nn.ClassID,
		SubjectID:   nn.SubjectID,
		ChapterID:   nn.ChapterID,
		CreatedAt:   time.Now().UTC(),
	}
	note, err := svc.repo.CreateNote(ctx, note)
	if err != nil {
		return Note{}, err
	}
	note.FileURL = svc.mediaURL(note.FilePath)
	return note, nil
}

func (svc *Service) QueryNotes(ctx context.Context, classID, subjectID string) ([]Note, error) {
	if classID == "" || subjectID == "" {
		return []Note{}, nil
	}
	notes, err := svc.repo.QueryNotes(ctx, classID, subjectID)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i].FileURL = svc.mediaURL(notes[i].FilePath)
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes, nil
}

func (svc *Service) GetNote(ctx context.Context, id string) (Note, error) {
	note, err := svc.repo.GetNoteByID(ctx, id)
	if err != nil {
		return Note{}, err
	}
	note.FileURL = svc.mediaURL(note.FilePath)
	return note, nil
}

func (svc *Service) DeleteNotes(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteNotesByID(ctx, ids...)
}

// GroupNotesByChapter buckets notes by chapter title, chapters in display
// order, with un-chaptered notes in a trailing "General" bucket. Empty buckets
// are dropped.
func (svc *Service) GroupNotesByChapter(ctx context.Context, classID, subjectID string) ([]NoteGroup, error) {
	notes, err := svc.QueryNotes(ctx, classID, subjectID)
	if err != nil {
		return nil, err
	}
	chaps, err := svc.chapters.QueryChapters(ctx, classID, subjectID)
	if err != nil {
		return nil, err
	}

	byChapter := make(map[string][]Note, len(chaps))
	var general []Note
	for _, n := range notes {
		if n.ChapterID == nil || *n.ChapterID == "" {
			general = append(general, n)
			continue
		}
		byChapter[*n.ChapterID] = append(byChapter[*n.ChapterID], n)
	}

	groups := make([]NoteGroup, 0, len(chaps)+1)
	for _, ch := range chaps {
		if bucket := byChapter[ch.ID]; len(bucket) > 0 {
			groups = append(groups, NoteGroup{Chapter: ch.Title, Notes: bucket})
			delete(byChapter, ch.ID)
		}
	}
	// notes referencing deleted chapters degrade to the general bucket
	for _, bucket := range byChapter {
		general = append(general, bucket...)
	}
	if len(general) > 0 {
		groups = append(groups, NoteGroup{Chapter: GeneralBucket, Notes: general})
	}
	return groups, nil
}

func (svc *Service) CreateLecture(ctx context.Context, nl NewLecture) (Lecture, error) {
	lec := Lecture{
		Title:     nl.Title,
		Type:      nl.Type,
		Link:      nl.Link,
		FilePath:  nl.FilePath,
		IsPremium: nl.IsPremium,
		ClassID:   nl.ClassID,
		SubjectID: nl.SubjectID,
		ChapterID: nl.ChapterID,
		CreatedAt: time.Now().UTC(),
	}
	if lec.Type == LectureTypeLink {
		lec.FilePath = nil
	} else {
		lec.Link = ""
	}
	lec, err := svc.repo.CreateLecture(ctx, lec)
	if err != nil {
		return Lecture{}, err
	}
	lec.FileURL = svc.mediaURL(lec.FilePath)
	return lec, nil
}

// QueryLectures lists lectures of a Class+Subject; premium lectures are
// omitted unless includePremium.
func (svc *Service) QueryLectures(ctx context.Context, classID, subjectID string, includePremium bool) ([]Lecture, error) {
	if classID == "" || subjectID == "" {
		return []Lecture{}, nil
	}
	lecs, err := svc.repo.QueryLectures(ctx, classID, subjectID)
	if err != nil {
		return nil, err
	}
	out := make([]Lecture, 0, len(lecs))
	for _, lec := range lecs {
		if lec.IsPremium && !includePremium {
			continue
		}
		lec.FileURL = svc.mediaURL(lec.FilePath)
		out = append(out, lec)
	}
	return out, nil
}

func (svc *Service) GetLecture(ctx context.Context, id string) (Lecture, error) {
	lec, err := svc.repo.GetLectureByID(ctx, id)
	if err != nil {
		return Lecture{}, err
	}
	lec.FileURL = svc.mediaURL(lec.FilePath)
	return lec, nil
}

func (svc *Service) DeleteLectures(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteLecturesByID(ctx, ids...)
}

// GroupLecturesByChapter buckets lectures the same way GroupNotesByChapter
// buckets notes.
func (svc *Service) GroupLecturesByChapter(ctx context.Context, classID, subjectID string, includePremium bool) ([]LectureGroup, error) {
	lecs, err := svc.QueryLectures(ctx, classID, subjectID, includePremium)
	if err != nil {
		return nil, err
	}
	chaps, err := svc.chapters.QueryChapters(ctx, classID, subjectID)
	if err != nil {
		return nil, err
	}

	byChapter := make(map[string][]Lecture, len(chaps))
	var general []Lecture
	for _, lec := range lecs {
		if lec.ChapterID == nil || *lec.ChapterID == "" {
			general = append(general, lec)
			continue
		}
		byChapter[*lec.ChapterID] = append(byChapter[*lec.ChapterID], lec)
	}

	groups := make([]LectureGroup, 0, len(chaps)+1)
	for _, ch := range chaps {
		if bucket := byChapter[ch.ID]; len(bucket) > 0 {
			groups = append(groups, LectureGroup{Chapter: ch.Title, Lectures: bucket})
			delete(byChapter, ch.ID)
		}
	}
	for _, bucket := range byChapter {
		general = append(general, bucket...)
	}
	if len(general) > 0 {
		groups = append(groups, LectureGroup{Chapter: GeneralBucket, Lectures: general})
	}
	return groups, nil
}
