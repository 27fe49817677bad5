package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSMSClient_SendSMS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "secret" {
			t.Errorf("basic auth not set correctly: %s/%s", user, pass)
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("To"); got != "+22670000000" {
			t.Errorf("To = %q", got)
		}
		if got := r.PostForm.Get("From"); got != "+15005550006" {
			t.Errorf("From = %q", got)
		}
		if got := r.PostForm.Get("Body"); got != "Rappel de rendez-vous" {
			t.Errorf("Body = %q", got)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer server.Close()

	client := NewSMSClient(SMSConfig{
		AccountSID:  "AC123",
		AuthToken:   "secret",
		PhoneNumber: "+15005550006",
		BaseURL:     server.URL,
	})

	if err := client.SendSMS(context.Background(), "+22670000000", "Rappel de rendez-vous"); err != nil {
		t.Fatalf("SendSMS: %v", err)
	}
}

func TestSMSClient_SendSMSError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":21211,"message":"invalid number"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewSMSClient(SMSConfig{
		AccountSID:  "AC123",
		AuthToken:   "secret",
		PhoneNumber: "+15005550006",
		BaseURL:     server.URL,
	})

	if err := client.SendSMS(context.Background(), "not-a-number", "test"); err == nil {
		t.Fatal("expected error on 400 response")
	}
}
