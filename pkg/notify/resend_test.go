package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResendSender_Configured(t *testing.T) {
	t.Parallel()

	if NewResendSender("").Configured() {
		t.Fatalf("empty key should leave the sender unconfigured")
	}
	if NewResendSender("   ").Configured() {
		t.Fatalf("whitespace key should leave the sender unconfigured")
	}
	if !NewResendSender("re_123").Configured() {
		t.Fatalf("sender with key should be configured")
	}
}

func TestResendSender_Send(t *testing.T) {
	t.Parallel()

	var (
		gotAuth string
		gotBody resendRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewResendSender("re_123", WithResendEndpoint(srv.URL))
	err := sender.Send(context.Background(), Message{
		From:    "intake@agency.example",
		To:      "team@agency.example",
		ReplyTo: "jane@example.com",
		Subject: "New quote request",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotAuth != "Bearer re_123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	want := resendRequest{
		From:    "intake@agency.example",
		To:      []string{"team@agency.example"},
		ReplyTo: "jane@example.com",
		Subject: "New quote request",
		HTML:    "<p>hi</p>",
	}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Fatalf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestResendSender_APIErrorSurfacesMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	sender := NewResendSender("re_123", WithResendEndpoint(srv.URL))
	err := sender.Send(context.Background(), Message{To: "team@agency.example"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "invalid from address") {
		t.Fatalf("error = %v", err)
	}
}

func TestResendSender_UnconfiguredSendFails(t *testing.T) {
	t.Parallel()

	err := NewResendSender("").Send(context.Background(), Message{})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("Send = %v, want configuration error", err)
	}
}
