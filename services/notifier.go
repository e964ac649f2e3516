package services

import "github.com/rufinoratti/zonadepor-api/notifications"

// Notifier — то, что сервисам нужно от хаба уведомлений.
// Отдельный интерфейс, чтобы тесты могли подставить фейк.
type Notifier interface {
	NotifyUser(userID string, event notifications.Event)
	NotifyUsers(userIDs []string, event notifications.Event)
}
