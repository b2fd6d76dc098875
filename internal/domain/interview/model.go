package interview

import (
	"time"

	"github.com/google/uuid"

	"github.com/carenavi/triage-api/internal/domain/triage"
)

// MaxGeneratedQuestions caps how many AI-generated follow-up questions are
// retained on an interview record.
const MaxGeneratedQuestions = 6

// Interview maps to the interview table. One row per consultation. The
// triage verdict fields are written once and never mutated afterwards;
// later stages only append questionnaire data.
type Interview struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	SymptomText string    `db:"symptom_text" json:"symptom_text"`
	CategoryID  *int      `db:"category_id" json:"category_id,omitempty"`
	IsChild     bool      `db:"is_child" json:"is_child"`
	Status      string    `db:"status" json:"status"`

	// Triage verdict, populated by SubmitTriage.
	UrgencyLevel           *triage.Urgency `db:"urgency_level" json:"urgency_level,omitempty"`
	RecommendedDepartments []string        `db:"recommended_departments" json:"recommended_departments,omitempty"`
	MatchedQuestionIDs     []int           `db:"matched_question_ids" json:"matched_question_ids,omitempty"`
	TriagedAt              *time.Time      `db:"triaged_at" json:"triaged_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GeneratedQuestion maps to the interview_question table: one AI-generated
// follow-up question on the white path, answered later by the patient.
type GeneratedQuestion struct {
	ID           uuid.UUID `db:"id" json:"id"`
	InterviewID  uuid.UUID `db:"interview_id" json:"interview_id"`
	Position     int       `db:"position" json:"position"`
	QuestionText string    `db:"question_text" json:"question_text"`
	Answer       *string   `db:"answer" json:"answer,omitempty"`
}

// Interview lifecycle: open -> triaged -> answered.
const (
	StatusOpen     = "open"
	StatusTriaged  = "triaged"
	StatusAnswered = "answered"
)
