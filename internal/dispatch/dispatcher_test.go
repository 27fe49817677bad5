package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamansante/mamansante-be/internal/db"
)

type fakeStore struct {
	due    []db.Reminder
	dueErr error
	sent   []string
}

func (f *fakeStore) GetDueReminders(_ context.Context, _ time.Time) ([]db.Reminder, error) {
	return f.due, f.dueErr
}

func (f *fakeStore) MarkReminderSent(_ context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

type fakeSMS struct {
	failFor map[string]bool
	to      []string
}

func (f *fakeSMS) SendSMS(_ context.Context, to, _ string) error {
	if f.failFor[to] {
		return errors.New("gateway down")
	}
	f.to = append(f.to, to)
	return nil
}

func TestRun_SendsAndMarksDueReminders(t *testing.T) {
	store := &fakeStore{due: []db.Reminder{
		{ID: "r1", Name: "Awa", Type: "CPN", Phone: "+22670000001", AppointmentDate: time.Now()},
		{ID: "r2", Name: "Fatou", Type: "Vaccination", Phone: "+22670000002", AppointmentDate: time.Now()},
	}}
	sms := &fakeSMS{}

	NewDispatcher(store, sms).Run(context.Background())

	if len(sms.to) != 2 {
		t.Fatalf("sent %d texts, want 2", len(sms.to))
	}
	if len(store.sent) != 2 || store.sent[0] != "r1" || store.sent[1] != "r2" {
		t.Errorf("marked sent = %v, want [r1 r2]", store.sent)
	}
}

func TestRun_DeliveryFailureLeavesReminderUnsent(t *testing.T) {
	store := &fakeStore{due: []db.Reminder{
		{ID: "r1", Phone: "+22670000001", AppointmentDate: time.Now()},
		{ID: "r2", Phone: "+22670000002", AppointmentDate: time.Now()},
	}}
	sms := &fakeSMS{failFor: map[string]bool{"+22670000001": true}}

	NewDispatcher(store, sms).Run(context.Background())

	if len(store.sent) != 1 || store.sent[0] != "r2" {
		t.Errorf("marked sent = %v, want only r2 so r1 retries next poll", store.sent)
	}
}

func TestRun_StoreErrorIsNonFatal(t *testing.T) {
	store := &fakeStore{dueErr: errors.New("db down")}
	NewDispatcher(store, &fakeSMS{}).Run(context.Background())
	if len(store.sent) != 0 {
		t.Errorf("nothing should be marked sent on a load failure")
	}
}
