package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientSend(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Fatalf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}

		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := New()

	status, err := client.Send(context.Background(), srv.URL, map[string]any{"hello": "world"})
	if err != nil {
		t.Fatalf("Send() unexpected error: %v", err)
	}

	if status != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", status, http.StatusAccepted)
	}

	if gotBody["hello"] != "world" {
		t.Fatalf("gotBody = %+v", gotBody)
	}
}

func TestClientSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New()

	if _, err := client.Send(context.Background(), srv.URL, map[string]any{}); err == nil {
		t.Fatal("Send() expected error for 5xx response")
	}
}
