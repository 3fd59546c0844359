package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attestd/attest/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		t.Errorf("status: got %d, want %d", res.StatusCode, http.StatusCreated)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["id"] != "abc" {
		t.Errorf("body id: got %s, want abc", body["id"])
	}
}

func TestRespondJSONNilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusNoContent, nil)

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusNoContent {
		t.Errorf("status: got %d, want %d", res.StatusCode, http.StatusNoContent)
	}
	data, _ := io.ReadAll(res.Body)
	if len(data) != 0 {
		t.Errorf("body: got %q, want empty", data)
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handlers.RespondError(rec, logger, http.StatusConflict, errors.New("evaluation already claimed"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusConflict {
		t.Errorf("status: got %d, want %d", res.StatusCode, http.StatusConflict)
	}

	var body handlers.ErrorResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "evaluation already claimed" {
		t.Errorf("error message: got %q", body.Error)
	}
}
