package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/example/fransbot/pkg/models"
	"github.com/go-co-op/gocron"
)

// Default reminder window
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 21
)

// Notifier sends a practice reminder to a user
type Notifier interface {
	SendReminder(ctx context.Context, user models.User) error
}

// UserSource lists users due for a reminder
type UserSource interface {
	GetUsersForNotification(ctx context.Context, hour int, dayStart time.Time) ([]models.User, error)
}

// Config bounds the hours in which reminders are sent
type Config struct {
	StartHour int
	EndHour   int
	Location  *time.Location
}

// DefaultConfig returns the default reminder window in local time
func DefaultConfig() Config {
	return Config{
		StartHour: DefaultNotificationStartHour,
		EndHour:   DefaultNotificationEndHour,
		Location:  time.Local,
	}
}

// Scheduler runs the hourly reminder job
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	users     UserSource
	config    Config
	now       func() time.Time
}

// New creates a new scheduler instance
func New(notifier Notifier, users UserSource, config Config) *Scheduler {
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(config.Location),
		notifier:  notifier,
		users:     users,
		config:    config,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// Schedule hourly check for users who need reminders
	if _, err := s.scheduler.Every(1).Hour().StartAt(nextHour(s.now())).Do(s.checkAndSendReminders); err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) checkAndSendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sent, err := s.RunCheck(ctx)
	if err != nil {
		log.Printf("Error checking reminders: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("Sent %d practice reminders", sent)
	}
}

// RunCheck sends reminders for the current hour and returns how many were sent
func (s *Scheduler) RunCheck(ctx context.Context) (int, error) {
	now := s.now().In(s.config.Location)
	currentHour := now.Hour()

	// Reminders are only sent inside the configured window
	if currentHour < s.config.StartHour || currentHour > s.config.EndHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, s.config.StartHour, s.config.EndHour)
		return 0, nil
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.config.Location)
	users, err := s.users.GetUsersForNotification(ctx, currentHour, dayStart)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, user := range users {
		if err := s.notifier.SendReminder(ctx, user); err != nil {
			log.Printf("Error sending reminder to user %d: %v", user.TelegramID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func nextHour(t time.Time) time.Time {
	return t.Truncate(time.Hour).Add(time.Hour)
}
