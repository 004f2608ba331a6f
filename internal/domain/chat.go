package domain

import "time"

type ChatMessage struct {
	Text      string
	IsUser    bool
	Timestamp time.Time
}
