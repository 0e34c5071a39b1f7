package library

import (
	"context"
	"testing"
	"time"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/academics"
)

type fakeLibraryRepo struct {
	notes    []Note
	lectures []Lecture
}

var _ Repository = (*fakeLibraryRepo)(nil)

func (r *fakeLibraryRepo) CreateNote(ctx context.Context, note Note) (Note, error) {
	r.notes = append(r.notes, note)
	return note, nil
}

func (r *fakeLibraryRepo) QueryNotes(ctx context.Context, classID, subjectID string) ([]Note, error) {
	var out []Note
	for _, n := range r.notes {
		if n.ClassID == classID && n.SubjectID == subjectID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeLibraryRepo) GetNoteByID(ctx context.Context, id string) (Note, error) {
	for _, n := range r.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return Note{}, ErrNoteNotFound
}

func (r *fakeLibraryRepo) DeleteNotesByID(ctx context.Context, ids ...string) error { return nil }

func (r *fakeLibraryRepo) CreateLecture(ctx context.Context, lec Lecture) (Lecture, error) {
	r.lectures = append(r.lectures, lec)
	return lec, nil
}

func (r *fakeLibraryRepo) QueryLectures(ctx context.Context, classID, subjectID string) ([]Lecture, error) {
	var out []Lecture
	for _, lec := range r.lectures {
		if lec.ClassID == classID && lec.SubjectID == subjectID {
			out = append(out, lec)
		}
	}
	return out, nil
}

func (r *fakeLibraryRepo) GetLectureByID(ctx context.Context, id string) (Lecture, error) {
	for _, lec := range r.lectures {
		if lec.ID == id {
			return lec, nil
		}
	}
	return Lecture{}, ErrLectureNotFound
}

func (r *fakeLibraryRepo) DeleteLecturesByID(ctx context.Context, ids ...string) error { return nil }

type fakeChapterDirectory struct {
	chapters []academics.Chapter
}

func (d *fakeChapterDirectory) QueryChapters(ctx context.Context, classID, subjectID string) ([]academics.Chapter, error) {
	return d.chapters, nil
}

func strPtr(s string) *string { return &s }

func Test_Service_mediaURL(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewService(&fakeLibraryRepo{}, &fakeChapterDirectory{}, conf)

	if got := svc.mediaURL(nil); got != "" {
		t.Errorf("mediaURL(nil) = %q, want empty", got)
	}
	if got := svc.mediaURL(strPtr("")); got != "" {
		t.Errorf("mediaURL(\"\") = %q, want empty", got)
	}
	want := conf.Server.MediaBaseURL + "/notes/algebra.pdf"
	if got := svc.mediaURL(strPtr("notes/algebra.pdf")); got != want {
		t.Errorf("mediaURL() = %q, want %q", got, want)
	}
}

func Test_Service_QueryLectures_premiumFilter(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	repo := &fakeLibraryRepo{lectures: []Lecture{
		{ID: "l1", Title: "Free", ClassID: "c1", SubjectID: "s1", CreatedAt: now},
		{ID: "l2", Title: "Premium", IsPremium: true, ClassID: "c1", SubjectID: "s1", CreatedAt: now},
	}}
	svc := NewService(repo, &fakeChapterDirectory{}, core.NewTestConfig())

	t.Run("missing parent ids", func(t *testing.T) {
		lecs, err := svc.QueryLectures(ctx, "", "s1", true)
		if err != nil {
			t.Fatalf("QueryLectures() failed: %v", err)
		}
		if len(lecs) != 0 {
			t.Errorf("len(lectures) = %d, want 0", len(lecs))
		}
	})

	t.Run("free callers", func(t *testing.T) {
		lecs, err := svc.QueryLectures(ctx, "c1", "s1", false)
		if err != nil {
			t.Fatalf("QueryLectures() failed: %v", err)
		}
		if len(lecs) != 1 || lecs[0].ID != "l1" {
			t.Errorf("lectures = %+v, want only l1", lecs)
		}
	})

	t.Run("premium callers", func(t *testing.T) {
		lecs, err := svc.QueryLectures(ctx, "c1", "s1", true)
		if err != nil {
			t.Fatalf("QueryLectures() failed: %v", err)
		}
		if len(lecs) != 2 {
			t.Errorf("len(lectures) = %d, want 2", len(lecs))
		}
	})
}

func Test_Service_GroupNotesByChapter(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	chapters := []academics.Chapter{
		{ID: "ch1", Title: "Algebra", Order: 1, ClassID: "c1", SubjectID: "s1"},
		{ID: "ch2", Title: "Geometry", Order: 2, ClassID: "c1", SubjectID: "s1"},
	}
	repo := &fakeLibraryRepo{notes: []Note{
		{ID: "n1", Title: "Linear equations", ClassID: "c1", SubjectID: "s1", ChapterID: strPtr("ch1"), CreatedAt: now},
		{ID: "n2", Title: "Overview", ClassID: "c1", SubjectID: "s1", CreatedAt: now},
		{ID: "n3", Title: "Quadratics", ClassID: "c1", SubjectID: "s1", ChapterID: strPtr("ch1"), CreatedAt: now},
		{ID: "n4", Title: "Orphan", ClassID: "c1", SubjectID: "s1", ChapterID: strPtr("gone"), CreatedAt: now},
	}}
	svc := NewService(repo, &fakeChapterDirectory{chapters: chapters}, core.NewTestConfig())

	groups, err := svc.GroupNotesByChapter(ctx, "c1", "s1")
	if err != nil {
		t.Fatalf("GroupNotesByChapter() failed: %v", err)
	}

	// ch2 has no notes and is dropped; orphans degrade to General
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2; groups %+v", len(groups), groups)
	}
	if groups[0].Chapter != "Algebra" || len(groups[0].Notes) != 2 {
		t.Errorf("groups[0] = %+v, want Algebra with 2 notes", groups[0])
	}
	if groups[1].Chapter != GeneralBucket || len(groups[1].Notes) != 2 {
		t.Errorf("groups[1] = %+v, want General with 2 notes", groups[1])
	}
}

func Test_Service_CreateLecture(t *testing.T) {
	ctx := context.Background()
	repo := &fakeLibraryRepo{}
	svc := NewService(repo, &fakeChapterDirectory{}, core.NewTestConfig())

	t.Run("link lectures drop the file path", func(t *testing.T) {
		lec, err := svc.CreateLecture(ctx, NewLecture{
			Title: "Motion", Type: LectureTypeLink, Link: "https://videos.test.cd/motion",
			FilePath: strPtr("stale.mp4"), ClassID: "c1", SubjectID: "s1",
		})
		if err != nil {
			t.Fatalf("CreateLecture() failed: %v", err)
		}
		if lec.FilePath != nil || lec.Link == "" {
			t.Errorf("lecture = %+v, want link only", lec)
		}
	})

	t.Run("file lectures drop the link", func(t *testing.T) {
		lec, err := svc.CreateLecture(ctx, NewLecture{
			Title: "Motion", Type: LectureTypeFile, Link: "https://stale.test.cd",
			FilePath: strPtr("lectures/motion.mp4"), ClassID: "c1", SubjectID: "s1",
		})
		if err != nil {
			t.Fatalf("CreateLecture() failed: %v", err)
		}
		if lec.Link != "" || lec.FilePath == nil {
			t.Errorf("lecture = %+v, want file only", lec)
		}
		if lec.FileURL == "" {
			t.Error("file lecture has no FileURL")
		}
	})
}
