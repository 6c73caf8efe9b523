package retrieval

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/upb/ragvault/concurrency"
	"github.com/upb/ragvault/config"
	"github.com/upb/ragvault/domain"
	"github.com/upb/ragvault/models"
	"github.com/upb/ragvault/providers"
	"github.com/upb/ragvault/repositories"
	"go.uber.org/zap"
)

const systemInstruction = "You are a helpful assistant. Answer the user's question using only the provided context. If the context does not contain the answer, say you don't know."

// Source is one retrieved chunk surfaced alongside a chat answer.
type Source struct {
	DocumentID uuid.UUID
	Title      string
	Snippet    string
	Score      float64
}

// Options overrides the chat defaults for a single turn.
type Options struct {
	TopK        int
	Temperature float64
}

// Input is one chat turn request.
type Input struct {
	SessionID string
	UserID    *string
	Message   string
	VaultID   *uuid.UUID
	Options   Options
}

// Result is the outcome of a chat turn.
type Result struct {
	Answer  string
	Sources []Source
}

// Core implements the retrieval + memory chat operation.
type Core struct {
	repos    *repositories.Repositories
	embedder providers.Embedder
	chat     providers.ChatCompleter
	locks    *concurrency.SessionLocks
	cfg      config.ChatConfig
	logger   *zap.Logger
}

func NewCore(repos *repositories.Repositories, embedder providers.Embedder, chat providers.ChatCompleter, locks *concurrency.SessionLocks, cfg config.ChatConfig, logger *zap.Logger) *Core {
	return &Core{repos: repos, embedder: embedder, chat: chat, locks: locks, cfg: cfg, logger: logger}
}

// Chat runs one turn of the IDLE -> EMBED_QUERY -> RETRIEVE -> COMPOSE ->
// COMPLETE -> PERSIST_REPLY -> IDLE state machine.
func (c *Core) Chat(ctx context.Context, in Input) (*Result, error) {
	if in.SessionID == "" {
		return nil, domain.Validation("session_id is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, domain.Validation("message must not be empty")
	}

	topK := in.Options.TopK
	if topK <= 0 {
		topK = c.cfg.TopKDefault
	}
	temperature := in.Options.Temperature
	if temperature == 0 {
		temperature = c.cfg.DefaultTemperature
	}

	release := c.locks.Lock(in.SessionID)
	defer release()

	session, err := c.repos.Sessions.GetOrCreate(ctx, in.SessionID, in.UserID)
	if err != nil {
		return nil, err
	}

	history, err := c.repos.Messages.RecentBySession(ctx, session.ID, c.cfg.MaxHistoryMessages)
	if err != nil {
		return nil, err
	}

	var (
		wg          sync.WaitGroup
		queryVector []float32
		embedErr    error
		persistErr  error
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		userMsg := models.NewMessage(session.ID, models.RoleUser, in.Message)
		if err := c.repos.Messages.Create(ctx, userMsg); err != nil {
			c.logger.Error("failed to persist user message", zap.Error(err))
			persistErr = domain.StoreUnavailable("failed to persist user message", err)
		}
	}()
	go func() {
		defer wg.Done()
		vectors, err := c.embedder.Embed(ctx, []string{in.Message})
		if err != nil {
			embedErr = translateProviderErr(err)
			return
		}
		queryVector = vectors[0]
	}()
	wg.Wait()

	if persistErr != nil {
		return nil, persistErr
	}
	if embedErr != nil {
		return nil, embedErr
	}

	matches, err := c.repos.Vectors.Search(ctx, queryVector, in.VaultID, topK)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, len(matches))
	for i, m := range matches {
		sources[i] = Source{
			DocumentID: m.DocumentID,
			Title:      m.Title,
			Snippet:    snippet(m.Text),
			Score:      m.Score,
		}
	}

	prompt := composePrompt(in.Message, sources, history)

	reply, err := c.chat.Complete(ctx, prompt, temperature)
	if err != nil {
		return nil, translateProviderErr(err)
	}

	assistantMsg := models.NewMessage(session.ID, models.RoleAssistant, reply)
	if err := c.repos.Messages.Create(ctx, assistantMsg); err != nil {
		return nil, err
	}
	if err := c.repos.Sessions.TouchLastActive(ctx, session.ID); err != nil {
		return nil, err
	}

	return &Result{Answer: reply, Sources: sources}, nil
}

func composePrompt(userMessage string, sources []Source, history []*models.Message) []providers.ChatMessage {
	var context strings.Builder
	for _, s := range sources {
		fmt.Fprintf(&context, "[%s / %s]\n%s\n\n", s.DocumentID, s.Title, s.Snippet)
	}

	messages := make([]providers.ChatMessage, 0, len(history)+3)
	messages = append(messages, providers.ChatMessage{
		Role:    "system",
		Content: systemInstruction + "\n\nContext:\n" + context.String(),
	})
	for _, m := range history {
		messages = append(messages, providers.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, providers.ChatMessage{Role: "user", Content: userMessage})
	return messages
}

// snippet returns the first 200 characters of text with surrounding
// whitespace collapsed; shorter texts are returned unchanged.
func snippet(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= 200 {
		return collapsed
	}
	return string(runes[:200])
}

func translateProviderErr(err error) error {
	return providers.AsDomainError(err)
}
