// Command seedcatalog loads a JSON fixture (courses, requisite trees,
// sections, meetings, instructors, terms) into the SQLite catalog schema
// internal/catalog queries. The scrapers that produce the fixture run out
// of band; this command only turns a prepared document into rows.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"bruinplan/internal/catalog"
)

func main() {
	dbPath := flag.String("db", "database/courses.db", "path to the sqlite catalog db")
	jsonPath := flag.String("file", "catalog_seed.json", "path to the seed fixture JSON file")
	flag.Parse()

	fileData, err := os.ReadFile(*jsonPath)
	if err != nil {
		log.Fatalf("failed to read fixture file %q: %v", *jsonPath, err)
	}

	var data catalog.SeedData
	if err := json.Unmarshal(fileData, &data); err != nil {
		log.Fatalf("failed to parse fixture JSON: %v", err)
	}

	gw, err := catalog.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open catalog db: %v", err)
	}
	defer gw.Close()

	report, err := catalog.Seed(gw.DB(), data)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	for _, e := range report.Errors {
		log.Printf("warning: %s", e)
	}

	fmt.Printf("loaded %d subjects, %d courses, %d requisite trees, %d sections, %d terms (%d row errors)\n",
		report.Subjects, report.Courses, report.Requisites, report.Sections, report.Terms, len(report.Errors))
}
