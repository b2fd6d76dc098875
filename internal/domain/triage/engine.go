package triage

import "errors"

// ErrEmptySelection is returned when a triage submission contains neither a
// catalog question id nor the "none apply" sentinel. Callers surface it as a
// validation error; no verdict is produced.
var ErrEmptySelection = errors.New("select at least one symptom")

// Evaluate computes exactly one Verdict from the catalog for the active
// category, the patient's selected question ids, and the category's green
// map. It is a pure function: same inputs, same verdict, no side effects.
//
// Selection semantics:
//   - An empty selection is rejected outright.
//   - If the selection contains SentinelNoneID, every other entry is
//     ignored. The category's presence in gm decides green vs white and no
//     escalation applies.
//   - Otherwise selected ids are resolved against the catalog (unknown ids
//     are ignored), the base level is the highest of red > yellow > green
//     present among resolved non-escalator questions (white when none), and
//     a selected escalator question raises the result by exactly one step,
//     at most once, with red as the ceiling.
func Evaluate(catalog []*Question, selected []int, categoryID int, gm GreenMap) (*Verdict, error) {
	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	for _, id := range selected {
		if id == SentinelNoneID {
			return evaluateSentinel(categoryID, gm), nil
		}
	}

	byID := make(map[int]*Question, len(catalog))
	for _, q := range catalog {
		byID[q.ID] = q
	}

	var resolved []*Question
	for _, id := range selected {
		if q, ok := byID[id]; ok {
			resolved = append(resolved, q)
		}
	}

	base := White
	hasEscalator := false
	for _, q := range resolved {
		if q.IsEscalator {
			// Escalators act as a modifier only; their nominal tier is
			// excluded from the base-level scan.
			hasEscalator = true
			continue
		}
		if q.UrgencyLevel > base {
			base = q.UrgencyLevel
		}
	}
	if hasEscalator {
		base = base.Escalate()
	}

	return &Verdict{
		UrgencyLevel:           base,
		RecommendedDepartments: unionDepartments(resolved),
		MatchedQuestionIDs:     selected,
		MatchedQuestions:       resolved,
	}, nil
}

// evaluateSentinel handles the "none of the above apply" path. The sentinel
// short-circuits before any escalation logic.
func evaluateSentinel(categoryID int, gm GreenMap) *Verdict {
	deps, ok := gm.Departments(categoryID)
	if !ok {
		return &Verdict{
			UrgencyLevel:           White,
			RecommendedDepartments: []string{},
			MatchedQuestionIDs:     []int{SentinelNoneID},
		}
	}
	// Synthetic question record so downstream views can display the
	// green-map departments alongside real catalog matches.
	synthetic := &Question{
		ID:                     SentinelNoneID,
		CategoryID:             categoryID,
		UrgencyLevel:           Green,
		RecommendedDepartments: deps,
	}
	return &Verdict{
		UrgencyLevel:           Green,
		RecommendedDepartments: deps,
		MatchedQuestionIDs:     []int{SentinelNoneID},
		MatchedQuestions:       []*Question{synthetic},
	}
}

// unionDepartments collapses the department recommendations of every
// resolved question into a deduplicated set. Order follows first occurrence.
func unionDepartments(questions []*Question) []string {
	seen := make(map[string]bool)
	union := []string{}
	for _, q := range questions {
		for _, d := range q.RecommendedDepartments {
			if seen[d] {
				continue
			}
			seen[d] = true
			union = append(union, d)
		}
	}
	return union
}
