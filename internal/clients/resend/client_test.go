package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend(t *testing.T) {
	var gotAuth string
	var gotBody SendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "msg-9"})
	}))
	defer srv.Close()

	c := NewWithBaseURL("re_key", srv.URL)
	id, err := c.Send(context.Background(), SendRequest{
		From:    "Club <noreply@example.com>",
		To:      []string{"alice@example.com"},
		ReplyTo: "alice@example.com",
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if id != "msg-9" {
		t.Errorf("message id = %q", id)
	}
	if gotAuth != "Bearer re_key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if len(gotBody.To) != 1 || gotBody.To[0] != "alice@example.com" {
		t.Errorf("to = %v", gotBody.To)
	}
	if gotBody.ReplyTo != "alice@example.com" {
		t.Errorf("reply_to = %q", gotBody.ReplyTo)
	}
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid `from` field"})
	}))
	defer srv.Close()

	c := NewWithBaseURL("re_key", srv.URL)
	_, err := c.Send(context.Background(), SendRequest{To: []string{"a@b.co"}})
	if err == nil {
		t.Fatal("expected error on 422")
	}
}

func TestSendMissingKey(t *testing.T) {
	c := NewWithBaseURL("", "http://localhost:1")
	if _, err := c.Send(context.Background(), SendRequest{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
