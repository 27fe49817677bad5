// Package dispatch sends due appointment reminders by SMS on a schedule.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mamansante/mamansante-be/internal/db"
)

// Store is the reminder persistence the dispatcher needs
type Store interface {
	GetDueReminders(ctx context.Context, now time.Time) ([]db.Reminder, error)
	MarkReminderSent(ctx context.Context, id string) error
}

// SMSSender is the outbound SMS contract, satisfied by pkg/twilio
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Dispatcher polls for due reminders every minute and texts them out
type Dispatcher struct {
	store Store
	sms   SMSSender
	cron  *cron.Cron
}

// NewDispatcher creates a reminder dispatcher
func NewDispatcher(store Store, sms SMSSender) *Dispatcher {
	return &Dispatcher{
		store: store,
		sms:   sms,
		cron:  cron.New(),
	}
}

// Start schedules the per-minute poll. Call Stop on shutdown.
func (d *Dispatcher) Start() error {
	if _, err := d.cron.AddFunc("* * * * *", func() { d.Run(context.Background()) }); err != nil {
		return fmt.Errorf("failed to schedule reminder dispatch: %w", err)
	}
	d.cron.Start()
	log.Printf("Reminder dispatcher started")
	return nil
}

// Stop halts the schedule and waits for a running poll to finish
func (d *Dispatcher) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}

// Run sends every due reminder once. A delivery failure leaves the
// reminder unsent so the next poll retries it.
func (d *Dispatcher) Run(ctx context.Context) {
	reminders, err := d.store.GetDueReminders(ctx, time.Now())
	if err != nil {
		log.Printf("Failed to load due reminders: %v", err)
		return
	}

	for _, reminder := range reminders {
		body := fmt.Sprintf("Bonjour %s, rappel de votre rendez-vous « %s » prévu le %s.",
			reminder.Name, reminder.Type, reminder.AppointmentDate.Format("02/01/2006"))
		if err := d.sms.SendSMS(ctx, reminder.Phone, body); err != nil {
			log.Printf("Failed to send reminder %s: %v", reminder.ID, err)
			continue
		}
		if err := d.store.MarkReminderSent(ctx, reminder.ID); err != nil {
			log.Printf("Failed to mark reminder %s sent: %v", reminder.ID, err)
		}
	}
}
