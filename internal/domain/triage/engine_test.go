package triage

import (
	"reflect"
	"testing"
)

// testCatalog builds the category-3 (腹痛) catalog used across engine tests:
// one red, one yellow, two green (overlapping departments), one escalator.
func testCatalog() []*Question {
	return []*Question{
		{ID: 10, CategoryID: 3, QuestionText: "激しい腹痛で動けない", UrgencyLevel: Red, RecommendedDepartments: []string{"救急科"}},
		{ID: 11, CategoryID: 3, QuestionText: "腹部の手術を受けたことがある", UrgencyLevel: Green, IsEscalator: true},
		{ID: 12, CategoryID: 3, QuestionText: "血便が出た", UrgencyLevel: Yellow, RecommendedDepartments: []string{"消化器内科"}},
		{ID: 13, CategoryID: 3, QuestionText: "軽い腹痛が続いている", UrgencyLevel: Green, RecommendedDepartments: []string{"内科", "消化器内科"}},
		{ID: 14, CategoryID: 3, QuestionText: "吐き気がある", UrgencyLevel: Green, RecommendedDepartments: []string{"内科"}},
	}
}

func testGreenMap() GreenMap {
	return GreenMap{
		2: {"内科", "かかりつけ"},
		3: {"内科", "消化器内科"},
	}
}

func TestEvaluateEmptySelection(t *testing.T) {
	_, err := Evaluate(testCatalog(), nil, 3, testGreenMap())
	if err != ErrEmptySelection {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	_, err = Evaluate(testCatalog(), []int{}, 3, testGreenMap())
	if err != ErrEmptySelection {
		t.Fatalf("expected ErrEmptySelection for empty slice, got %v", err)
	}
}

func TestEvaluateSentinelGreenMapHit(t *testing.T) {
	v, err := Evaluate(testCatalog(), []int{SentinelNoneID}, 2, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != Green {
		t.Errorf("urgency = %s, want green", v.UrgencyLevel)
	}
	if !reflect.DeepEqual(v.RecommendedDepartments, []string{"内科", "かかりつけ"}) {
		t.Errorf("departments = %v", v.RecommendedDepartments)
	}
	if !reflect.DeepEqual(v.MatchedQuestionIDs, []int{SentinelNoneID}) {
		t.Errorf("matched ids = %v", v.MatchedQuestionIDs)
	}
	if len(v.MatchedQuestions) != 1 || v.MatchedQuestions[0].ID != SentinelNoneID {
		t.Errorf("expected single synthetic matched question, got %v", v.MatchedQuestions)
	}
}

func TestEvaluateSentinelGreenMapMiss(t *testing.T) {
	v, err := Evaluate(testCatalog(), []int{SentinelNoneID}, 99, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != White {
		t.Errorf("urgency = %s, want white", v.UrgencyLevel)
	}
	if len(v.RecommendedDepartments) != 0 {
		t.Errorf("departments = %v, want empty", v.RecommendedDepartments)
	}
}

func TestEvaluateSentinelIgnoresOtherSelections(t *testing.T) {
	// A red selection alongside the sentinel must not influence the verdict.
	v, err := Evaluate(testCatalog(), []int{10, SentinelNoneID, 12}, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != Green {
		t.Errorf("urgency = %s, want green (sentinel short-circuit)", v.UrgencyLevel)
	}
	if !reflect.DeepEqual(v.MatchedQuestionIDs, []int{SentinelNoneID}) {
		t.Errorf("matched ids = %v, want only sentinel", v.MatchedQuestionIDs)
	}
}

func TestEvaluateHighestLevelWins(t *testing.T) {
	cases := []struct {
		name     string
		selected []int
		want     Urgency
	}{
		{"single green", []int{13}, Green},
		{"green and yellow", []int{13, 12}, Yellow},
		{"green, yellow and red", []int{13, 12, 10}, Red},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Evaluate(testCatalog(), tc.selected, 3, testGreenMap())
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if v.UrgencyLevel != tc.want {
				t.Errorf("urgency = %s, want %s", v.UrgencyLevel, tc.want)
			}
		})
	}
}

func TestEvaluateEscalatorRaisesOneStep(t *testing.T) {
	// Yellow base plus escalator lands on red.
	v, err := Evaluate(testCatalog(), []int{12, 11}, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != Red {
		t.Errorf("urgency = %s, want red", v.UrgencyLevel)
	}
}

func TestEvaluateEscalatorCeiling(t *testing.T) {
	// Red base plus escalator stays red.
	v, err := Evaluate(testCatalog(), []int{10, 11}, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != Red {
		t.Errorf("urgency = %s, want red", v.UrgencyLevel)
	}
}

func TestEvaluateEscalatorOnly(t *testing.T) {
	// Only the escalator selected: white base escalated once is green. The
	// escalator's own nominal tier never enters the base-level scan.
	v, err := Evaluate(testCatalog(), []int{11}, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != Green {
		t.Errorf("urgency = %s, want green", v.UrgencyLevel)
	}
}

func TestEvaluateMultipleEscalatorsSingleStep(t *testing.T) {
	catalog := append(testCatalog(), &Question{
		ID: 15, CategoryID: 3, QuestionText: "高齢である", UrgencyLevel: Green, IsEscalator: true,
	})
	// Two escalators still raise the yellow base by exactly one step.
	v, err := Evaluate(catalog, []int{12, 11, 15}, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != Red {
		t.Errorf("urgency = %s, want red", v.UrgencyLevel)
	}
}

func TestEvaluateUnknownIDsIgnored(t *testing.T) {
	v, err := Evaluate(testCatalog(), []int{13, 999}, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != Green {
		t.Errorf("urgency = %s, want green", v.UrgencyLevel)
	}
	// The raw selection is preserved for audit even when ids are unknown.
	if !reflect.DeepEqual(v.MatchedQuestionIDs, []int{13, 999}) {
		t.Errorf("matched ids = %v", v.MatchedQuestionIDs)
	}
	if len(v.MatchedQuestions) != 1 || v.MatchedQuestions[0].ID != 13 {
		t.Errorf("resolved questions = %v", v.MatchedQuestions)
	}
}

func TestEvaluateAllUnknownIDs(t *testing.T) {
	// No resolvable selection and no sentinel: white with no departments.
	v, err := Evaluate(testCatalog(), []int{998, 999}, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.UrgencyLevel != White {
		t.Errorf("urgency = %s, want white", v.UrgencyLevel)
	}
	if len(v.RecommendedDepartments) != 0 {
		t.Errorf("departments = %v, want empty", v.RecommendedDepartments)
	}
}

func TestEvaluateDepartmentUnion(t *testing.T) {
	// 内科 appears on two selected questions but must appear once, in first
	// occurrence order.
	v, err := Evaluate(testCatalog(), []int{13, 14, 12}, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := []string{"内科", "消化器内科"}
	if !reflect.DeepEqual(v.RecommendedDepartments, want) {
		t.Errorf("departments = %v, want %v", v.RecommendedDepartments, want)
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	selected := []int{13, 12, 11}
	first, err := Evaluate(testCatalog(), selected, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := Evaluate(testCatalog(), selected, 3, testGreenMap())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated evaluation diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	catalog := testCatalog()
	selected := []int{13, 12}
	gm := testGreenMap()
	if _, err := Evaluate(catalog, selected, 3, gm); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !reflect.DeepEqual(selected, []int{13, 12}) {
		t.Errorf("selection mutated: %v", selected)
	}
	if !reflect.DeepEqual(gm, testGreenMap()) {
		t.Errorf("green map mutated: %v", gm)
	}
}
