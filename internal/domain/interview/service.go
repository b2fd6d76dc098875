package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carenavi/triage-api/internal/domain/category"
	"github.com/carenavi/triage-api/internal/domain/triage"
	"github.com/carenavi/triage-api/internal/platform/ai"
)

// ErrAlreadyTriaged is returned when a triage submission targets an
// interview that already carries a verdict. Verdicts are write-once.
var ErrAlreadyTriaged = errors.New("interview already has a verdict")

// Triager produces a verdict for a category and selection. Satisfied by
// *triage.Service.
type Triager interface {
	Evaluate(ctx context.Context, categoryID int, selected []int) (*triage.Verdict, error)
}

// CategoryDirectory lists selectable categories for AI matching. Satisfied
// by *category.Service.
type CategoryDirectory interface {
	ListByAudience(ctx context.Context, audience string) ([]*category.Category, error)
}

type Service struct {
	interviews Repository
	triager    Triager
	categories CategoryDirectory
	ai         ai.Client
}

func NewService(interviews Repository, triager Triager, categories CategoryDirectory, aiClient ai.Client) *Service {
	return &Service{interviews: interviews, triager: triager, categories: categories, ai: aiClient}
}

// Create opens a new interview. When no category is supplied and an AI
// client is configured, the symptom text is matched against the category
// directory for the patient's audience. The match is best effort: on
// failure the category stays unset and can still be supplied with the
// triage submission.
func (s *Service) Create(ctx context.Context, iv *Interview) error {
	if iv.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(iv.SymptomText) == "" {
		return fmt.Errorf("symptom_text is required")
	}
	iv.Status = StatusOpen

	if iv.CategoryID == nil && s.ai != nil {
		if id, err := s.matchCategory(ctx, iv); err == nil && id > 0 {
			iv.CategoryID = &id
		}
	}
	return s.interviews.Create(ctx, iv)
}

func (s *Service) matchCategory(ctx context.Context, iv *Interview) (int, error) {
	audience := category.AudienceAdult
	if iv.IsChild {
		audience = category.AudienceChild
	}
	cats, err := s.categories.ListByAudience(ctx, audience)
	if err != nil {
		return 0, err
	}
	if len(cats) == 0 {
		return 0, nil
	}
	options := make([]ai.CategoryOption, 0, len(cats))
	for _, c := range cats {
		options = append(options, ai.CategoryOption{ID: c.ID, Name: c.Name})
	}
	return s.ai.MatchCategory(ctx, iv.SymptomText, options)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Interview, error) {
	return s.interviews.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Interview, int, error) {
	return s.interviews.List(ctx, patientID, limit, offset)
}

func (s *Service) Questions(ctx context.Context, interviewID uuid.UUID) ([]*GeneratedQuestion, error) {
	if _, err := s.interviews.GetByID(ctx, interviewID); err != nil {
		return nil, err
	}
	return s.interviews.GetQuestions(ctx, interviewID)
}

// TriageResult is what a triage submission hands back to the client: the
// verdict plus the view to navigate to, and the generated questionnaire
// when that view is the questionnaire.
type TriageResult struct {
	Interview          *Interview           `json:"interview"`
	Verdict            *triage.Verdict      `json:"verdict"`
	Next               triage.Destination   `json:"next"`
	GeneratedQuestions []*GeneratedQuestion `json:"generated_questions,omitempty"`
}

// SubmitTriage evaluates the selection, persists the verdict onto the
// interview, then resolves navigation. The verdict write must succeed
// before any routing happens. On the questionnaire path the AI call runs
// after the verdict is stored, so an AI failure leaves a triaged interview
// with no questionnaire; re-submitting then reuses the stored verdict and
// only retries questionnaire generation, so the patient is never stranded
// by an AI outage.
func (s *Service) SubmitTriage(ctx context.Context, interviewID uuid.UUID, categoryID int, selected []int) (*TriageResult, error) {
	iv, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status != StatusOpen {
		return s.resumeQuestionnaire(ctx, iv)
	}
	if categoryID <= 0 && iv.CategoryID != nil {
		categoryID = *iv.CategoryID
	}

	verdict, err := s.triager.Evaluate(ctx, categoryID, selected)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	level := verdict.UrgencyLevel
	iv.CategoryID = &categoryID
	iv.Status = StatusTriaged
	iv.UrgencyLevel = &level
	iv.RecommendedDepartments = verdict.RecommendedDepartments
	iv.MatchedQuestionIDs = verdict.MatchedQuestionIDs
	iv.TriagedAt = &now
	if err := s.interviews.SaveVerdict(ctx, iv); err != nil {
		return nil, err
	}

	result := &TriageResult{
		Interview: iv,
		Verdict:   verdict,
		Next:      triage.RouteFor(verdict.UrgencyLevel),
	}
	if result.Next != triage.DestQuestionnaire {
		return result, nil
	}

	questions, err := s.generateQuestionnaire(ctx, iv, verdict)
	if err != nil {
		return nil, fmt.Errorf("generate questionnaire: %w", err)
	}
	result.GeneratedQuestions = questions
	return result, nil
}

// resumeQuestionnaire handles a triage re-submission against an interview
// that already carries a verdict. Verdicts are write-once, so the selection
// is ignored and the stored verdict is reused. The one case that may
// proceed is a questionnaire-bound interview whose generation failed
// earlier and has no questions yet; everything else conflicts.
func (s *Service) resumeQuestionnaire(ctx context.Context, iv *Interview) (*TriageResult, error) {
	if iv.Status != StatusTriaged || iv.UrgencyLevel == nil {
		return nil, ErrAlreadyTriaged
	}
	if triage.RouteFor(*iv.UrgencyLevel) != triage.DestQuestionnaire {
		return nil, ErrAlreadyTriaged
	}
	existing, err := s.interviews.GetQuestions(ctx, iv.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrAlreadyTriaged
	}

	verdict := &triage.Verdict{
		UrgencyLevel:           *iv.UrgencyLevel,
		RecommendedDepartments: iv.RecommendedDepartments,
		MatchedQuestionIDs:     iv.MatchedQuestionIDs,
	}
	questions, err := s.generateQuestionnaire(ctx, iv, verdict)
	if err != nil {
		return nil, fmt.Errorf("generate questionnaire: %w", err)
	}
	return &TriageResult{
		Interview:          iv,
		Verdict:            verdict,
		Next:               triage.DestQuestionnaire,
		GeneratedQuestions: questions,
	}, nil
}

// generateQuestionnaire asks the AI for follow-up questions and persists at
// most MaxGeneratedQuestions of them. The symptom fed to the AI prefers the
// matched question texts; on the no-match path only the free-text symptom
// exists.
func (s *Service) generateQuestionnaire(ctx context.Context, iv *Interview, verdict *triage.Verdict) ([]*GeneratedQuestion, error) {
	if s.ai == nil {
		return nil, fmt.Errorf("ai client not configured")
	}
	symptom := iv.SymptomText
	if texts := matchedTexts(verdict); len(texts) > 0 {
		symptom = strings.Join(texts, "、")
	}

	texts, err := s.ai.GenerateQuestionnaire(ctx, symptom, iv.IsChild)
	if err != nil {
		return nil, err
	}
	if len(texts) > MaxGeneratedQuestions {
		texts = texts[:MaxGeneratedQuestions]
	}

	questions := make([]*GeneratedQuestion, 0, len(texts))
	for i, text := range texts {
		questions = append(questions, &GeneratedQuestion{
			InterviewID:  iv.ID,
			Position:     i + 1,
			QuestionText: text,
		})
	}
	if err := s.interviews.ReplaceQuestions(ctx, iv.ID, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func matchedTexts(verdict *triage.Verdict) []string {
	var texts []string
	for _, q := range verdict.MatchedQuestions {
		if q.ID == triage.SentinelNoneID {
			continue
		}
		texts = append(texts, q.QuestionText)
	}
	return texts
}

// SubmitAnswers records questionnaire answers keyed by question position
// and closes the interview.
func (s *Service) SubmitAnswers(ctx context.Context, interviewID uuid.UUID, answers map[int]string) error {
	iv, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return err
	}
	if iv.Status != StatusTriaged {
		return fmt.Errorf("interview is %s, expected %s", iv.Status, StatusTriaged)
	}
	if len(answers) == 0 {
		return fmt.Errorf("answers are required")
	}
	for position, text := range answers {
		if position < 1 || position > MaxGeneratedQuestions {
			return fmt.Errorf("invalid question position %d", position)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("answer for position %d is empty", position)
		}
	}
	return s.interviews.SaveAnswers(ctx, interviewID, answers)
}
