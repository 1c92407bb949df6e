package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/models"
)

// NotificationRepositoryAdapter сохраняет события хаба в ленту уведомлений.
type NotificationRepositoryAdapter struct {
	repo interface {
		Create(ctx context.Context, n *models.Notification) error
	}
}

// NewNotificationRepositoryAdapter создаёт новый адаптер.
func NewNotificationRepositoryAdapter(repo interface {
	Create(ctx context.Context, n *models.Notification) error
}) *NotificationRepositoryAdapter {
	return &NotificationRepositoryAdapter{repo: repo}
}

// CreateNotification реализует интерфейс NotificationSaver. Запись в ленте
// хранит тот же конверт, что уходит по WebSocket.
func (a *NotificationRepositoryAdapter) CreateNotification(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type": event,
		"data": data,
	})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать уведомление: %w", err)
	}

	return a.repo.Create(ctx, &models.Notification{
		UserID:  userID,
		Payload: payload,
	})
}
