package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	baseBackoff = time.Millisecond
	m.Run()
}

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func chatReply(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}, "finish_reason": "stop"},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestGenerateQuestionnaire(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("messages = %d, want system + user", len(req.Messages))
		}
		if !strings.Contains(req.Messages[1].Content, "小児") {
			t.Errorf("expected pediatric subject in user message: %q", req.Messages[1].Content)
		}
		w.Write([]byte(chatReply("```json\n{\"questions\": [{\"text\": \"いつからですか\"}, {\"text\": \"\"}, {\"text\": \"熱はありますか\"}]}\n```")))
	})

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	questions, err := client.GenerateQuestionnaire(context.Background(), "お腹が痛い", true)
	if err != nil {
		t.Fatalf("GenerateQuestionnaire: %v", err)
	}
	// Empty question texts are dropped.
	if len(questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(questions))
	}
	if questions[0] != "いつからですか" {
		t.Errorf("first question = %q", questions[0])
	}
}

func TestGenerateQuestionnaireNoQuestions(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`{"questions": []}`)))
	})

	client := NewClient(Config{BaseURL: srv.URL})
	if _, err := client.GenerateQuestionnaire(context.Background(), "x", false); err == nil {
		t.Fatal("expected error for empty question list")
	}
}

func TestMatchCategory(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`{"category_id": 3}`)))
	})

	client := NewClient(Config{BaseURL: srv.URL})
	options := []CategoryOption{{ID: 1, Name: "発熱"}, {ID: 3, Name: "腹痛"}}
	id, err := client.MatchCategory(context.Background(), "お腹が痛い", options)
	if err != nil {
		t.Fatalf("MatchCategory: %v", err)
	}
	if id != 3 {
		t.Errorf("category = %d, want 3", id)
	}
}

func TestMatchCategoryRejectsUnknownID(t *testing.T) {
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(`{"category_id": 42}`)))
	})

	client := NewClient(Config{BaseURL: srv.URL})
	options := []CategoryOption{{ID: 1, Name: "発熱"}}
	if _, err := client.MatchCategory(context.Background(), "x", options); err == nil {
		t.Fatal("expected error for id outside the option set")
	}
}

func TestMatchCategoryNoOptions(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://unused"})
	if _, err := client.MatchCategory(context.Background(), "x", nil); err == nil {
		t.Fatal("expected error for empty option set")
	}
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(chatReply(`{"category_id": 1}`)))
	})

	client := NewClient(Config{BaseURL: srv.URL, MaxRetries: 3})
	id, err := client.MatchCategory(context.Background(), "x", []CategoryOption{{ID: 1, Name: "発熱"}})
	if err != nil {
		t.Fatalf("MatchCategory: %v", err)
	}
	if id != 1 {
		t.Errorf("category = %d", id)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "invalid model", "type": "invalid_request_error"}}`))
	})

	client := NewClient(Config{BaseURL: srv.URL, MaxRetries: 3})
	_, err := client.MatchCategory(context.Background(), "x", []CategoryOption{{ID: 1, Name: "発熱"}})
	if err == nil {
		t.Fatal("expected API error")
	}
	if !strings.Contains(err.Error(), "invalid model") {
		t.Errorf("error should carry the API message: %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 4xx)", attempts)
	}
}

func TestCompleteRetriesExhausted(t *testing.T) {
	attempts := 0
	srv := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	client := NewClient(Config{BaseURL: srv.URL, MaxRetries: 1})
	_, err := client.MatchCategory(context.Background(), "x", []CategoryOption{{ID: 1, Name: "発熱"}})
	if err == nil {
		t.Fatal("expected exhausted retries error")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want initial + 1 retry", attempts)
	}
}
