package services

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"order_manager/internal/models"
)

type fakeOrderRepo struct {
	orders []models.Order
}

func (f *fakeOrderRepo) Create(*models.Order) error            { return nil }
func (f *fakeOrderRepo) GetByID(string) (*models.Order, error) { return nil, errors.New("not used") }
func (f *fakeOrderRepo) Update(*models.Order) error            { return nil }
func (f *fakeOrderRepo) Delete(string) error                   { return nil }
func (f *fakeOrderRepo) GetActiveWithDueDates() ([]models.Order, error) {
	return f.orders, nil
}
func (f *fakeOrderRepo) GetByProject(string, bool) ([]models.Order, error) {
	return f.orders, nil
}

type fakeLogRepo struct {
	existing []models.ReminderLog
	created  []models.ReminderLog
}

func (f *fakeLogRepo) CreateIfAbsent(entry *models.ReminderLog) (bool, error) {
	f.created = append(f.created, *entry)
	return true, nil
}
func (f *fakeLogRepo) GetSince(time.Time) ([]models.ReminderLog, error) {
	return f.existing, nil
}
func (f *fakeLogRepo) GetByOrderIDs([]string) ([]models.ReminderLog, error) {
	return f.existing, nil
}

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) Upsert(*models.User) error { return nil }
func (f *fakeUserRepo) GetByID(id int64) (*models.User, error) {
	for i := range f.users {
		if f.users[i].TelegramID == id {
			return &f.users[i], nil
		}
	}
	return nil, errors.New("user not found")
}
func (f *fakeUserRepo) GetByIDs([]int64) ([]models.User, error) { return f.users, nil }
func (f *fakeUserRepo) Update(*models.User) error               { return nil }

type sentMessage struct {
	recipientID int64
	message     string
	withLink    bool
}

type fakeNotifier struct {
	sent    []sentMessage
	failAll bool
}

func (f *fakeNotifier) Notify(userID int64, message string) error {
	if f.failAll {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, sentMessage{recipientID: userID, message: message})
	return nil
}

func (f *fakeNotifier) NotifyWithLink(userID int64, message, buttonText, url string) error {
	if f.failAll {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, sentMessage{recipientID: userID, message: message, withLink: true})
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sweepFixtures() (*fakeOrderRepo, *fakeLogRepo, *fakeUserRepo) {
	orderRepo := &fakeOrderRepo{orders: []models.Order{{
		ID:              "ord-1",
		Title:           "Сверстать лендинг",
		Status:          "in_progress",
		DueDate:         "2024-10-10",
		AssigneeID:      200,
		AssigneeName:    "Мария",
		CreatorID:       100,
		ReminderOffsets: "1h",
	}}}
	userRepo := &fakeUserRepo{users: []models.User{
		{TelegramID: 100, FirstName: "Иван", NotificationsEnabled: true},
		{TelegramID: 200, FirstName: "Мария", NotificationsEnabled: true},
	}}
	return orderRepo, &fakeLogRepo{}, userRepo
}

func TestReminderSweepDeliversAndLogs(t *testing.T) {
	orderRepo, logRepo, userRepo := sweepFixtures()
	notifier := &fakeNotifier{}
	svc := NewReminderService(orderRepo, logRepo, userRepo, notifier, nil, time.Hour, "", quietLogger())

	// one hour before the 2024-10-10 00:00 UTC deadline
	now := time.Date(2024, 10, 9, 23, 0, 0, 0, time.UTC)
	sent, err := svc.RunReminderSweep(now)
	require.NoError(t, err)

	require.Equal(t, 2, sent)
	recipients := []int64{notifier.sent[0].recipientID, notifier.sent[1].recipientID}
	require.ElementsMatch(t, []int64{100, 200}, recipients)
	require.False(t, notifier.sent[0].withLink)

	require.Len(t, logRepo.created, 1)
	require.Equal(t, "ord-1", logRepo.created[0].OrderID)
	require.Equal(t, "1h", logRepo.created[0].Offset)
}

func TestReminderSweepSkipsLoggedCandidates(t *testing.T) {
	orderRepo, logRepo, userRepo := sweepFixtures()
	target := time.Date(2024, 10, 9, 23, 0, 0, 0, time.UTC)
	logRepo.existing = []models.ReminderLog{{OrderID: "ord-1", Offset: "1h", Target: target}}

	notifier := &fakeNotifier{}
	svc := NewReminderService(orderRepo, logRepo, userRepo, notifier, nil, time.Hour, "", quietLogger())

	sent, err := svc.RunReminderSweep(target)
	require.NoError(t, err)
	require.Zero(t, sent)
	require.Empty(t, notifier.sent)
	require.Empty(t, logRepo.created)
}

func TestReminderSweepNoLogWriteWhenAllSendsFail(t *testing.T) {
	orderRepo, logRepo, userRepo := sweepFixtures()
	notifier := &fakeNotifier{failAll: true}
	svc := NewReminderService(orderRepo, logRepo, userRepo, notifier, nil, time.Hour, "", quietLogger())

	sent, err := svc.RunReminderSweep(time.Date(2024, 10, 9, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Zero(t, sent)
	// the candidate stays eligible for the next run
	require.Empty(t, logRepo.created)
}

func TestReminderSweepAttachesMiniAppLink(t *testing.T) {
	orderRepo, logRepo, userRepo := sweepFixtures()
	notifier := &fakeNotifier{}
	svc := NewReminderService(orderRepo, logRepo, userRepo, notifier, nil, time.Hour, "https://t.me/demo_bot/app", quietLogger())

	sent, err := svc.RunReminderSweep(time.Date(2024, 10, 9, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 2, sent)
	for _, m := range notifier.sent {
		require.True(t, m.withLink)
	}
}
