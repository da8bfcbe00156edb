package models

// Message is a chat message between a client and a freelancer.
// Delivery is best-effort; there is no read-receipt or ordering
// guarantee beyond insertion order.
type Message struct {
	ID        string `json:"id"`
	ProjectID int64  `json:"project_id"`
	SenderID  int64  `json:"sender_id"`
	Body      string `json:"body"`
	SentAt    string `json:"sent_at"`
}
