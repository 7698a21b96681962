package services

import (
	"context"
	"strings"
	"sync"

	"coinchat-backend/internal/models"
	"coinchat-backend/internal/store"
)

// DefaultSessionKey scopes requests that arrive without a session-id header.
const DefaultSessionKey = "default"

// ChatService is the chat request pipeline: it validates input, extends the
// session transcript with the user turn, obtains a completion through the
// configured executor and records the assistant reply.
//
// Access to a given session key is serialized by a per-key lock, so request
// N's completion is always computed against a transcript containing exactly
// the turns of requests 1..N in arrival order.
type ChatService struct {
	store    store.ConversationStore
	executor CompletionExecutor
	locks    sync.Map // session key -> *sync.Mutex
}

// NewChatService creates a new ChatService.
func NewChatService(store store.ConversationStore, executor CompletionExecutor) *ChatService {
	return &ChatService{
		store:    store,
		executor: executor,
	}
}

// HandleMessage runs one chat turn for sessionKey and returns the assistant
// reply. It fails with ErrValidation on empty input (before any transcript
// mutation) and with ErrUnavailable once the executor gives up; in the latter
// case the just-appended user turn is rolled back so the transcript never
// carries an unanswered message into the next completion.
func (s *ChatService) HandleMessage(ctx context.Context, sessionKey, userText string) (models.Message, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return models.Message{}, ErrValidation
	}

	lock := s.sessionLock(sessionKey)
	lock.Lock()
	defer lock.Unlock()

	s.store.Append(sessionKey, models.Message{Role: models.RoleUser, Content: userText})
	transcript := s.store.GetOrCreate(sessionKey)

	reply, err := s.executor.Execute(ctx, sessionKey, transcript)
	if err != nil {
		s.store.DropLast(sessionKey)
		return models.Message{}, err
	}

	s.store.Append(sessionKey, reply)
	return reply, nil
}

func (s *ChatService) sessionLock(sessionKey string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(sessionKey, &sync.Mutex{})
	return v.(*sync.Mutex)
}
