package store

import "coinchat-backend/internal/models"

// ConversationStore owns per-session transcripts for the lifetime of the
// process. Implementations seed every new session with the fixed system
// instruction as its first message; that message is never removed.
//
// The store itself only guarantees safety across distinct keys. Callers that
// allow concurrent requests on the same session key must serialize their
// read-append-append sequence externally (the chat pipeline holds a per-key
// lock for this).
type ConversationStore interface {
	// GetOrCreate returns a copy of the transcript for sessionKey, creating
	// and seeding it on first access.
	GetOrCreate(sessionKey string) []models.Message

	// Append adds one message to the end of the transcript for sessionKey,
	// creating the transcript first if needed.
	Append(sessionKey string, msg models.Message)

	// DropLast removes the most recently appended message. The seeded system
	// instruction is never dropped. Used to roll back a user turn whose
	// completion failed.
	DropLast(sessionKey string)
}
