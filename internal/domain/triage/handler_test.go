package triage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	svc, _ := seedService(t)
	return NewHandler(svc)
}

func TestHandler_Evaluate_Success(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	body := `{"category_id": 3, "selected_question_ids": [1, 2]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage/evaluate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Evaluate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp EvaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Verdict.UrgencyLevel != Red {
		t.Errorf("urgency = %s, want red", resp.Verdict.UrgencyLevel)
	}
	if resp.Next != DestEmergency {
		t.Errorf("next = %s, want emergency", resp.Next)
	}
}

func TestHandler_Evaluate_SentinelRoutesToAdvice(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	body := `{"category_id": 3, "selected_question_ids": [-1]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage/evaluate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Evaluate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp EvaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Verdict.UrgencyLevel != Green {
		t.Errorf("urgency = %s, want green", resp.Verdict.UrgencyLevel)
	}
	if resp.Next != DestAdvice {
		t.Errorf("next = %s, want advice", resp.Next)
	}
}

func TestHandler_Evaluate_EmptySelection(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	body := `{"category_id": 3, "selected_question_ids": []}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage/evaluate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Evaluate(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_Evaluate_MissingCategory(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	body := `{"selected_question_ids": [1]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage/evaluate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Evaluate(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
}

func TestHandler_ListQuestions_ByCategory(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/triage/questions?category_id=3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListQuestions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var items []*Question
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 questions, got %d", len(items))
	}
}

func TestHandler_GetQuestion_NotFound(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/triage/questions/999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := h.GetQuestion(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", httpErr.Code)
	}
}

func TestHandler_CreateQuestion(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	body := `{"category_id": 3, "question_text": "発熱がある", "urgency_level": "yellow"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triage/questions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateQuestion(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created Question
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected assigned id")
	}
	if created.UrgencyLevel != Yellow {
		t.Errorf("urgency = %s, want yellow", created.UrgencyLevel)
	}
}
