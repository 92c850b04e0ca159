package db

import (
	"context"
)

type CreateNotificationParams struct {
	RecipientID string `json:"recipient_id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Type        string `json:"type"`
	ReferenceID string `json:"reference_id"`
}

const createNotification = `
INSERT INTO notifications (recipient_id, title, message, type, reference_id, is_read)
VALUES ($1, $2, $3, $4, $5, false)
RETURNING id, recipient_id, title, message, type, reference_id, is_read, created_at
`

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error) {
	row := q.db.QueryRow(ctx, createNotification,
		arg.RecipientID, arg.Title, arg.Message, arg.Type, arg.ReferenceID,
	)

	var n Notification
	err := row.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Type, &n.ReferenceID, &n.IsRead, &n.CreatedAt)
	return n, err
}
