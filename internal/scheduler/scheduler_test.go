package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/fransbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	sent []int64
	fail map[int64]bool
}

func (m *mockNotifier) SendReminder(_ context.Context, user models.User) error {
	if m.fail[user.TelegramID] {
		return errors.New("blocked")
	}
	m.sent = append(m.sent, user.TelegramID)
	return nil
}

type mockUsers struct {
	users    []models.User
	err      error
	hour     int
	dayStart time.Time
}

func (m *mockUsers) GetUsersForNotification(_ context.Context, hour int, dayStart time.Time) ([]models.User, error) {
	m.hour = hour
	m.dayStart = dayStart
	return m.users, m.err
}

func newTestScheduler(notifier Notifier, users UserSource, now time.Time) *Scheduler {
	s := New(notifier, users, Config{StartHour: 8, EndHour: 21, Location: time.UTC})
	s.now = func() time.Time { return now }
	return s
}

func TestRunCheckSendsReminders(t *testing.T) {
	notifier := &mockNotifier{fail: map[int64]bool{2: true}}
	users := &mockUsers{users: []models.User{{TelegramID: 1}, {TelegramID: 2}, {TelegramID: 3}}}
	s := newTestScheduler(notifier, users, time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC))

	sent, err := s.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []int64{1, 3}, notifier.sent)
	assert.Equal(t, 9, users.hour)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), users.dayStart)
}

func TestRunCheckOutsideWindow(t *testing.T) {
	notifier := &mockNotifier{}
	users := &mockUsers{users: []models.User{{TelegramID: 1}}}
	s := newTestScheduler(notifier, users, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))

	sent, err := s.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, notifier.sent)
}

func TestRunCheckSourceError(t *testing.T) {
	users := &mockUsers{err: errors.New("db down")}
	s := newTestScheduler(&mockNotifier{}, users, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := s.RunCheck(context.Background())
	assert.Error(t, err)
}

func TestNextHour(t *testing.T) {
	got := nextHour(time.Date(2025, 3, 10, 9, 15, 30, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), got)
}
