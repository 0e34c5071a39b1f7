package main

import (
	"context"
	"fmt"
	"time"

	"github.com/darasahub/darasa/core/academics"
	"github.com/darasahub/darasa/core/feature"
)

var (
	demoClasses  = []string{"Form 1", "Form 2", "Form 3", "Form 4"}
	demoSubjects = []string{"Mathematics", "Physics", "Chemistry", "Biology", "English"}

	defaultFlags = []feature.Flag{
		{FeatureName: feature.Notes, IsPremium: false},
		{FeatureName: feature.Quizzes, IsPremium: true},
	}
)

// seedDemo fills an empty install with a usable catalog. Existing
// classes and subjects are kept; flags are upserted.
func (cli *commandLine) seedDemo() error {
	ctx := context.Background()
	now := time.Now().UTC()

	classes, err := cli.academicsRepo.QueryClasses(ctx)
	if err != nil {
		return err
	}
	haveCls := make(map[string]bool, len(classes))
	for _, cls := range classes {
		haveCls[cls.Title] = true
	}
	for _, title := range demoClasses {
		if haveCls[title] {
			continue
		}
		if _, err := cli.academicsRepo.CreateClass(ctx, academics.Class{Title: title, CreatedAt: now}); err != nil {
			return err
		}
		fmt.Printf("created class %q\n", title)
	}

	subjects, err := cli.academicsRepo.QuerySubjects(ctx)
	if err != nil {
		return err
	}
	haveSub := make(map[string]bool, len(subjects))
	for _, sub := range subjects {
		haveSub[sub.Name] = true
	}
	for _, name := range demoSubjects {
		if haveSub[name] {
			continue
		}
		if _, err := cli.academicsRepo.CreateSubject(ctx, academics.Subject{Name: name, CreatedAt: now}); err != nil {
			return err
		}
		fmt.Printf("created subject %q\n", name)
	}

	for _, flag := range defaultFlags {
		if _, err := cli.featRepo.UpsertFlag(ctx, flag); err != nil {
			return err
		}
		fmt.Printf("set feature %q premium=%t\n", flag.FeatureName, flag.IsPremium)
	}
	return nil
}
