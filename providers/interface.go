package providers

import (
	"context"

	"github.com/upb/ragvault/domain"
)

// ChatMessage is a single turn passed to a ChatCompleter.
type ChatMessage struct {
	Role    string
	Content string
}

// Embedder turns text into fixed-dimension dense vectors. Order of the
// input batch is preserved in the output.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// ChatCompleter produces a single reply from an ordered message history.
// Streaming is explicitly out of scope.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage, temperature float64) (string, error)
}

// ErrKind classifies a provider failure for the retry policy and for
// translation to the HTTP boundary's error taxonomy.
type ErrKind string

const (
	// Transient is retry-eligible: timeouts, 429s, 5xx.
	Transient ErrKind = "provider_transient"
	// Permanent is not retry-eligible: 4xx other than 429, schema mismatches.
	Permanent ErrKind = "provider_permanent"
	// Unavailable is surfaced once retries are exhausted.
	Unavailable ErrKind = "provider_unavailable"
)

// Error wraps a provider failure with its retry classification.
type Error struct {
	Provider string
	Kind     ErrKind
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(provider string, kind ErrKind, message string, cause error) *Error {
	return &Error{Provider: provider, Kind: kind, Message: message, Cause: cause}
}

// AsDomainError translates a provider failure into the domain error kind
// the HTTP boundary maps to a status code. Non-provider errors become
// KindInternal.
func AsDomainError(err error) error {
	provErr, ok := err.(*Error)
	if !ok {
		return domain.Internal("provider call failed", err)
	}
	switch provErr.Kind {
	case Transient:
		return domain.New(domain.KindProviderTransient, provErr.Message, provErr)
	case Unavailable:
		return domain.New(domain.KindProviderUnavailable, provErr.Message, provErr)
	default:
		return domain.New(domain.KindProviderPermanent, provErr.Message, provErr)
	}
}
