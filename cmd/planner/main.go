package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"bruinplan/internal/catalog"
	"bruinplan/internal/domain"
	"bruinplan/internal/jsonio"
	"bruinplan/internal/offering"
	"bruinplan/internal/planner"
	"bruinplan/internal/requisite"
)

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// courseLookup wraps a catalog.Session in a requisite.CourseLookup,
// memoizing resolved courses beyond the session's own cache so a single
// planning run never issues the same single-course query twice.
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

func groupSectionsByCourse(sections []domain.Section) map[domain.CourseKey][]domain.Section {
	out := map[domain.CourseKey][]domain.Section{}
	for _, s := range sections {
		out[s.CourseKey] = append(out[s.CourseKey], s)
	}
	return out
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

	input, err := jsonio.ReadPlannerInput(os.Stdin)
	if err != nil {
		log.Fatalf("invalid planner input: %v", err)
	}

	ctx := context.Background()
	lookup := courseLookup(ctx, session)

	result := requisite.Expand(input.Required, input.Transcript, lookup, input.Preferences.AllowWarnings)
	for _, w := range result.Warnings {
		log.Printf("requisite engine warning: %s", w)
	}

	allSections, err := session.SectionsFor(ctx, result.Required)
	if err != nil {
		log.Fatalf("catalog unavailable fetching sections: %v", err)
	}
	idx := offering.Build(allSections)
	byCourseSections := groupSectionsByCourse(allSections)

	sched, unplaceable := planner.Plan(input.Preferences, input.Terms, result.Required, result.ChosenClause, idx, byCourseSections)

	if err := jsonio.WritePlannerOutput(os.Stdout, sched, unplaceable); err != nil {
		log.Fatalf("failed to write planner output: %v", err)
	}
}
