package domain

import "time"

// MaxChatTextLen caps a single chat message after trimming.
const MaxChatTextLen = 500

// ChatAuthor is the subset of Identity stored with each message.
type ChatAuthor struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ChatMessage is one persisted chat record. Records are immutable and
// expire with the room's retention window. RoomCode stays server-side
// (the storage key and broadcast group already carry it) and never
// appears in chat_message or chat_history frames.
type ChatMessage struct {
	RoomCode string     `json:"-"`
	Author   ChatAuthor `json:"author"`
	Text     string     `json:"text"`
	SentAt   time.Time  `json:"sentAt"`
}
