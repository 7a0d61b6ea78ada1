package scheduler

import (
	"fmt"
	"log"

	"apartment-portal/internal/config"
	"apartment-portal/internal/database"
	"apartment-portal/internal/notify"

	"github.com/robfig/cron/v3"
)

// RentReminder emits a daily notification for every booked apartment
// naming the tenant and the rent due.
type RentReminder struct {
	cron      *cron.Cron
	store     *database.Store
	notifier  notify.Notifier
	config    *config.Config
	isRunning bool
}

// NewRentReminder creates a new rent reminder scheduler
func NewRentReminder(store *database.Store, notifier notify.Notifier, cfg *config.Config) *RentReminder {
	return &RentReminder{
		cron:     cron.New(),
		store:    store,
		notifier: notifier,
		config:   cfg,
	}
}

// Start starts the scheduler
func (s *RentReminder) Start() error {
	if !s.config.Scheduler.RentReminderEnabled {
		log.Println("Scheduler: Rent reminder is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Scheduler.RentReminderTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting rent reminder run...")
		if err := s.RunNow(); err != nil {
			log.Printf("Scheduler: Rent reminder run failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily rent reminder at %s (cron: %s)",
		s.config.Scheduler.RentReminderTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *RentReminder) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// RunNow immediately runs the rent reminder (for manual trigger)
func (s *RentReminder) RunNow() error {
	apartments, err := s.store.ListApartments()
	if err != nil {
		return err
	}

	reminded := 0
	for _, apt := range apartments {
		if !apt.IsBooked() || apt.TenantID == nil {
			continue
		}

		tenant, err := s.store.GetUserByID(*apt.TenantID)
		if err != nil {
			log.Printf("Scheduler: Failed to load tenant %s for apartment %s: %v",
				*apt.TenantID, apt.Number, err)
			continue
		}

		s.notifier.Notify(notify.Eventf(notify.LevelInfo,
			"Rent reminder: apartment %s, $%.2f due from %s", apt.Number, apt.Rent, tenant.Name))
		reminded++
	}

	log.Printf("Scheduler: Rent reminder run completed. Reminders sent: %d", reminded)
	return nil
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "09:00" -> "0 9 * * *" (run at 9:00 AM every day)
func (s *RentReminder) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	log.Printf("Scheduler: Failed to parse time '%s', using default 09:00", timeStr)
	return "0 9 * * *"
}
