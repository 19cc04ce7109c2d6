package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContent(t *testing.T) {
	var got geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("expected api key in query")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Hola, "}, {"text": "soy Rodrigo"}]}}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 4, "totalTokenCount": 16}
		}`))
	}))
	defer server.Close()

	client, err := New(Config{APIKey: "secret", Model: "gemini-test", APIURL: server.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resp, err := client.GenerateContent(context.Background(), &Request{
		System: "be brief",
		Messages: []Message{
			{Role: "user", Text: "hola"},
			{Role: "assistant", Text: "hola!"},
			{Role: "user", Text: "quien eres"},
		},
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}

	if resp.Text != "Hola, soy Rodrigo" {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 16 {
		t.Errorf("expected 16 total tokens, got %d", resp.Usage.TotalTokens)
	}
	if got.SystemInstruction == nil || got.SystemInstruction.Parts[0].Text != "be brief" {
		t.Errorf("system instruction not sent: %+v", got.SystemInstruction)
	}
	if len(got.Contents) != 3 || got.Contents[1].Role != "model" {
		t.Errorf("expected assistant turn mapped to model role, got %+v", got.Contents)
	}
}

func TestGenerateContent_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota"}`))
	}))
	defer server.Close()

	client, _ := New(Config{APIKey: "k", APIURL: server.URL})
	_, err := client.GenerateContent(context.Background(), &Request{Messages: []Message{{Role: "user", Text: "x"}}})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected API error with status, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing api key")
	}

	cfg = Config{APIKey: "k"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != DefaultModel || cfg.APIURL != DefaultAPIURL || cfg.HTTPClient == nil {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
