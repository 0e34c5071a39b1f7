// Package inmemdb provides in-memory Repository implementations used by unit
// tests and local demos. Tables keep insertion order.
package inmemdb

import (
	"sync"

	"github.com/darasahub/darasa/core/academics"
	"github.com/darasahub/darasa/core/feature"
	"github.com/darasahub/darasa/core/library"
	"github.com/darasahub/darasa/core/notification"
	"github.com/darasahub/darasa/core/quiz"
	"github.com/darasahub/darasa/core/review"
	"github.com/darasahub/darasa/core/user"
)

type (
	DB struct {
		user         *userTable
		class        *classTable
		subject      *subjectTable
		chapter      *chapterTable
		note         *noteTable
		lecture      *lectureTable
		quiz         *quizTable
		attempt      *attemptTable
		featureFlag  *featureFlagTable
		review       *reviewTable
		notification *notificationTable
	}

	userTable struct {
		sync.RWMutex
		rows []*user.User
	}
	classTable struct {
		sync.RWMutex
		rows []*academics.Class
	}
	subjectTable struct {
		sync.RWMutex
		rows []*academics.Subject
	}
	chapterTable struct {
		sync.RWMutex
		rows []*academics.Chapter
	}
	noteTable struct {
		sync.RWMutex
		rows []*library.Note
	}
	lectureTable struct {
		sync.RWMutex
		rows []*library.Lecture
	}
	quizTable struct {
		sync.RWMutex
		rows []*quiz.Quiz
	}
	attemptTable struct {
		sync.RWMutex
		rows []*quiz.Attempt
	}
	featureFlagTable struct {
		sync.RWMutex
		rows []*feature.Flag
	}
	reviewTable struct {
		sync.RWMutex
		rows []*review.Review
	}
	notificationTable struct {
		sync.RWMutex
		rows []*notification.Notification
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{},
		class:        &classTable{},
		subject:      &subjectTable{},
		chapter:      &chapterTable{},
		note:         &noteTable{},
		lecture:      &lectureTable{},
		quiz:         &quizTable{},
		attempt:      &attemptTable{},
		featureFlag:  &featureFlagTable{},
		review:       &reviewTable{},
		notification: &notificationTable{},
	}
	return db, nil
}
