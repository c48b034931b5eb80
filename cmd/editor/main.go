package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"bruinplan/internal/catalog"
	"bruinplan/internal/domain"
	"bruinplan/internal/editor"
	"bruinplan/internal/jsonio"
	"bruinplan/internal/requisite"
)

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func courseLookup(ctx context.Context, session *catalog.Session) requisite.CourseLookup {
	cache := map[domain.CourseKey]domain.Course{}
	return func(k domain.CourseKey) (domain.Course, bool) {
		if c, ok := cache[k]; ok {
			return c, true
		}
		courses, err := session.LookupCourses(ctx, []domain.CourseKey{k})
		if err != nil {
			log.Printf("lookup_courses failed for %s: %v", k, err)
			return domain.Course{}, false
		}
		if len(courses) == 0 {
			return domain.Course{}, false
		}
		cache[k] = courses[0]
		return courses[0], true
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	dbPath := getEnvOrDefault("CATALOG_DB", getEnvOrDefault("CATALOG_URL", "database/courses.db"))
	if os.Getenv("CATALOG_KEY") != "" {
		log.Printf("CATALOG_KEY is set but unused: the SQLite-backed catalog store takes no credentials")
	}

	gw, err := catalog.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer gw.Close()
	session := catalog.NewSession(gw)

	input, err := jsonio.ReadEditorInput(os.Stdin)
	if err != nil {
		log.Fatalf("invalid editor input: %v", err)
	}

	ctx := context.Background()
	lookup := courseLookup(ctx, session)

	var earliest domain.Term
	for i, e := range input.Schedule.Entries {
		if i == 0 || e.Term.Before(earliest) {
			earliest = e.Term
		}
	}
	cfg := editor.Config{Preferences: input.Preferences, EarliestTerm: earliest}

	op := input.Operation
	var result editor.Result

	switch op.Type {
	case "move":
		course, ok := domain.ParseCourseKey(op.CourseID)
		if !ok {
			log.Fatalf("invalid course_id %q", op.CourseID)
		}
		from, err := jsonio.ParseTermLabel(op.FromTerm)
		if err != nil {
			log.Fatalf("%v", err)
		}
		to, err := jsonio.ParseTermLabel(op.ToTerm)
		if err != nil {
			log.Fatalf("%v", err)
		}
		result = editor.Move(ctx, cfg, input.Schedule, input.Transcript, lookup, session, course, from, to)
	case "swap":
		c1, ok := domain.ParseCourseKey(op.Course1ID)
		if !ok {
			log.Fatalf("invalid course1_id %q", op.Course1ID)
		}
		c2, ok := domain.ParseCourseKey(op.Course2ID)
		if !ok {
			log.Fatalf("invalid course2_id %q", op.Course2ID)
		}
		t1, err := jsonio.ParseTermLabel(op.Term1)
		if err != nil {
			log.Fatalf("%v", err)
		}
		t2, err := jsonio.ParseTermLabel(op.Term2)
		if err != nil {
			log.Fatalf("%v", err)
		}
		result = editor.Swap(ctx, cfg, input.Schedule, input.Transcript, lookup, session, c1, t1, c2, t2)
	case "change_section":
		course, ok := domain.ParseCourseKey(op.CourseID)
		if !ok {
			log.Fatalf("invalid course_id %q", op.CourseID)
		}
		term, err := jsonio.ParseTermLabel(op.Term)
		if err != nil {
			log.Fatalf("%v", err)
		}
		result = editor.ChangeSection(ctx, cfg, input.Schedule, session, course, term, op.NewLectureID, op.NewDiscussionID)
	case "interpret":
		result = jsonio.RejectInterpret(input.Schedule)
	default:
		log.Fatalf("unknown operation type %q", op.Type)
	}

	if err := jsonio.WriteEditorOutput(os.Stdout, result); err != nil {
		log.Fatalf("failed to write editor output: %v", err)
	}
}
