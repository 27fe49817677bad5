package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// fakeSMS records outbound texts.
type fakeSMS struct {
	sent []string
	to   []string
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, body)
	return nil
}

func TestSetReminder_RejectsMissingFields(t *testing.T) {
	h := NewReminderHandler(nil, nil)
	r := authed("u1", h.SetReminder)

	bodies := []string{
		`{}`,
		`{"name":"Awa","type":"CPN","date":"2026-09-01","time":"10:00"}`,
		`{"name":"","type":"CPN","date":"2026-09-01","time":"10:00","phone":"+22670000000"}`,
	}
	for _, body := range bodies {
		w := doJSON(t, r, http.MethodPost, "/x", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestSetReminder_RejectsMalformedPhone(t *testing.T) {
	h := NewReminderHandler(nil, nil)
	r := authed("u1", h.SetReminder)

	w := doJSON(t, r, http.MethodPost, "/x",
		`{"name":"Awa","type":"CPN","date":"2026-09-01","time":"10:00","phone":"abc123"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed phone", w.Code)
	}
}

func TestSetReminder_RejectsMalformedDate(t *testing.T) {
	h := NewReminderHandler(nil, nil)
	r := authed("u1", h.SetReminder)

	w := doJSON(t, r, http.MethodPost, "/x",
		`{"name":"Awa","type":"CPN","date":"01/09/2026","time":"10:00","phone":"+22670000000"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for malformed date", w.Code)
	}
}

func TestSetReminder_SendsConfirmation(t *testing.T) {
	database, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO reminders`).
		WithArgs("u1", "Awa", "CPN", "+22670000000", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("r1", sqlTime()))

	sms := &fakeSMS{}
	h := NewReminderHandler(database, sms)
	r := authed("u1", h.SetReminder)

	w := doJSON(t, r, http.MethodPost, "/x",
		`{"name":"Awa","type":"CPN","date":"2026-09-01","time":"10:00","phone":"+226 70-00-00-00"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(sms.to) != 1 || sms.to[0] != "+22670000000" {
		t.Errorf("sms recipients = %v, want normalized phone", sms.to)
	}
	if !strings.Contains(w.Body.String(), "SMS de confirmation vous a été envoyé") {
		t.Errorf("unexpected reply: %s", w.Body.String())
	}
}

func TestSetReminder_PartialSuccessWhenSMSFails(t *testing.T) {
	database, mock := newMockDB(t)
	mock.ExpectQuery(`INSERT INTO reminders`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("r1", sqlTime()))

	sms := &fakeSMS{err: errors.New("gateway down")}
	h := NewReminderHandler(database, sms)
	r := authed("u1", h.SetReminder)

	w := doJSON(t, r, http.MethodPost, "/x",
		`{"name":"Awa","type":"CPN","date":"2026-09-01","time":"10:00","phone":"+22670000000"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when the SMS fails", w.Code)
	}
	if !strings.Contains(w.Body.String(), "a échoué") {
		t.Errorf("reply does not mention the failed SMS: %s", w.Body.String())
	}
}
