package memory

import (
	"sync"

	"coinchat-backend/internal/models"
)

// Store is an in-memory ConversationStore. Transcripts live for the process
// lifetime; there is no persistence across restarts.
type Store struct {
	mu           sync.Mutex
	transcripts  map[string][]models.Message
	systemPrompt string
	maxMessages  int // 0 = unbounded
}

// NewStore creates a Store that seeds new sessions with systemPrompt.
// When maxMessages > 0, the oldest non-system messages are evicted once a
// transcript grows past that many entries.
func NewStore(systemPrompt string, maxMessages int) *Store {
	return &Store{
		transcripts:  make(map[string][]models.Message),
		systemPrompt: systemPrompt,
		maxMessages:  maxMessages,
	}
}

func (s *Store) GetOrCreate(sessionKey string) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript := s.getOrCreateLocked(sessionKey)
	return append([]models.Message(nil), transcript...)
}

func (s *Store) Append(sessionKey string, msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript := append(s.getOrCreateLocked(sessionKey), msg)

	if s.maxMessages > 0 && len(transcript) > s.maxMessages {
		// Keep the seeded system instruction, drop the oldest turns.
		trimmed := make([]models.Message, 0, s.maxMessages)
		trimmed = append(trimmed, transcript[0])
		trimmed = append(trimmed, transcript[len(transcript)-(s.maxMessages-1):]...)
		transcript = trimmed
	}

	s.transcripts[sessionKey] = transcript
}

func (s *Store) DropLast(sessionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript, ok := s.transcripts[sessionKey]
	if !ok || len(transcript) <= 1 {
		// Nothing beyond the system instruction to drop.
		return
	}
	s.transcripts[sessionKey] = transcript[:len(transcript)-1]
}

func (s *Store) getOrCreateLocked(sessionKey string) []models.Message {
	transcript, ok := s.transcripts[sessionKey]
	if !ok {
		transcript = []models.Message{{Role: models.RoleSystem, Content: s.systemPrompt}}
		s.transcripts[sessionKey] = transcript
	}
	return transcript
}
