package jsonio

import (
	"encoding/json"
	"fmt"
	"io"

	"bruinplan/internal/domain"
	"bruinplan/internal/techbreadth"
)

// techBreadthInputJSON is the tech-breadth request document, following
// the same transcript/preferences conventions the planner and editor use.
type techBreadthInputJSON struct {
	Transcript  map[string]*string `json:"transcript"`
	Planned     []string           `json:"planned"`
	BreadthArea string             `json:"breadth_area"`
	// Candidates lists the course pool belonging to breadth_area. The
	// catalog schema carries no area/breadth tagging column, so the
	// caller — who already knows which program requirement breadth_area
	// refers to — supplies the pool directly.
	Candidates []string `json:"candidates"`
}

// TechBreadthInput is the decoded, domain-typed form of a tech-breadth
// request.
type TechBreadthInput struct {
	Transcript  domain.Transcript
	Planned     []domain.CourseKey
	BreadthArea string
	Candidates  []domain.CourseKey
}

// ReadTechBreadthInput decodes a tech-breadth input document from r.
func ReadTechBreadthInput(r io.Reader) (TechBreadthInput, error) {
	var raw techBreadthInputJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return TechBreadthInput{}, fmt.Errorf("decoding tech-breadth input: %w", err)
	}
	transcript, err := transcriptFromJSON(raw.Transcript)
	if err != nil {
		return TechBreadthInput{}, err
	}
	planned, err := courseKeysFromJSON(raw.Planned)
	if err != nil {
		return TechBreadthInput{}, fmt.Errorf("planned: %w", err)
	}
	candidates, err := courseKeysFromJSON(raw.Candidates)
	if err != nil {
		return TechBreadthInput{}, fmt.Errorf("candidates: %w", err)
	}
	return TechBreadthInput{Transcript: transcript, Planned: planned, BreadthArea: raw.BreadthArea, Candidates: candidates}, nil
}

type candidateJSON struct {
	Course  string `json:"course"`
	Missing int    `json:"missing"`
}

// WriteTechBreadthOutput encodes the ranked candidates to w.
func WriteTechBreadthOutput(w io.Writer, candidates []techbreadth.Candidate) error {
	out := make([]candidateJSON, len(candidates))
	for i, c := range candidates {
		out[i] = candidateJSON{Course: c.Course.String(), Missing: c.Missing}
	}
	return json.NewEncoder(w).Encode(struct {
		Candidates []candidateJSON `json:"candidates"`
	}{Candidates: out})
}
