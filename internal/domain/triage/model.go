package triage

import "time"

// SentinelNoneID is the reserved selection value meaning "none of the above
// apply". It never exists as a catalog row.
const SentinelNoneID = -1

// Question maps to the triage_question table. One row per checkbox the
// patient can select for a symptom category.
type Question struct {
	ID                     int       `db:"id" json:"id"`
	CategoryID             int       `db:"category_id" json:"category_id"`
	QuestionText           string    `db:"question_text" json:"question_text"`
	UrgencyLevel           Urgency   `db:"urgency_level" json:"urgency_level"`
	RecommendedDepartments []string  `db:"recommended_departments" json:"recommended_departments,omitempty"`
	IsEscalator            bool      `db:"is_escalator" json:"is_escalator"`
	DisplayOrder           int       `db:"display_order" json:"display_order"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// Verdict is the single result of one triage evaluation. It is written onto
// the interview record and never mutated afterwards.
type Verdict struct {
	UrgencyLevel           Urgency  `json:"urgency_level"`
	RecommendedDepartments []string `json:"recommended_departments"`
	MatchedQuestionIDs     []int    `json:"matched_question_ids"`
	// MatchedQuestions carries the resolved catalog rows for downstream
	// display. On the sentinel path it holds a single synthetic record.
	MatchedQuestions []*Question `json:"matched_questions,omitempty"`
}

// GreenMap maps a category id to the departments recommended when the
// patient selects "none of the above" for a category that still warrants
// routine care. Categories absent from the map fall through to white.
//
// The map is assembled by the category service and passed into Evaluate by
// value; the engine never reaches for ambient state.
type GreenMap map[int][]string

// Departments returns the mapped department set and whether the category is
// present in the map.
func (g GreenMap) Departments(categoryID int) ([]string, bool) {
	deps, ok := g[categoryID]
	return deps, ok
}
