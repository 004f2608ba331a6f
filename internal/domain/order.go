package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID            uuid.UUID
	OwnerID       string
	Items         []LineItem
	Amount        Money
	TransactionID string
	Status        string

	CreatedAt time.Time
}

const OrderStatusCompleted = "completed"
