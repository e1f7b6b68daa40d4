package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// HiredEvent is the payload pushed to a freelancer when their bid wins.
type HiredEvent struct {
	GigTitle string `json:"gig_title"`
	Message  string `json:"message"`
}

// Notifier fans a hire event out to the recipient's live sessions and
// publishes it on Redis for any external listeners. Both legs are
// fire-and-forget; the event is a UX convenience, not a system-of-record
// fact, so an offline recipient simply misses it.
type Notifier struct {
	Hub *Hub
	RDB *redis.Client
}

func NewNotifier(hub *Hub, rdb *redis.Client) *Notifier {
	return &Notifier{Hub: hub, RDB: rdb}
}

func (n *Notifier) NotifyHired(recipientID uuid.UUID, ev HiredEvent) {
	frame := map[string]interface{}{
		"type":      "notification",
		"kind":      "hired",
		"gig_title": ev.GigTitle,
		"message":   ev.Message,
	}

	n.Hub.SendToUser(recipientID, frame)

	if n.RDB != nil {
		payload, _ := json.Marshal(frame)
		n.RDB.Publish(context.Background(), "notifications:"+recipientID.String(), payload)
	}
}
