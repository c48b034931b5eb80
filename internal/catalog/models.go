package catalog

// Row structs mirror the shape of the SQLite rows this package reads,
// kept separate from internal/domain's richer types so scan targets stay
// close to the SQL they come from.

// requisiteNodeRow is one row of the requisite_nodes table: either an
// internal AND/OR node or a LEAF referencing a required course.
type requisiteNodeRow struct {
	id             int
	courseID       int
	parentID       *int
	kind           string // "AND", "OR", "LEAF"
	leafCourseName string
	leafSubject    *string
	leafNumber     *string
	relation       string // "PREREQ", "COREQ", "ANTIREQ"
	minGrade       string
	severity       string // "R", "W"
	displayOrder   int
}
