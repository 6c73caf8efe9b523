package models

import "github.com/google/uuid"

// Chunk is a bounded, overlapping slice of a Document's text.
// Ordinal is dense and zero-based within the owning document.
type Chunk struct {
	ID         uuid.UUID `json:"id" db:"id"`
	DocumentID uuid.UUID `json:"document_id" db:"document_id"`
	Ordinal    int       `json:"ordinal" db:"ordinal"`
	Text       string    `json:"text" db:"text"`
	TokenCount int       `json:"token_count" db:"token_count"`
}

func (Chunk) TableName() string {
	return "chunks"
}

func NewChunk(documentID uuid.UUID, ordinal int, text string, tokenCount int) *Chunk {
	return &Chunk{
		ID:         uuid.New(),
		DocumentID: documentID,
		Ordinal:    ordinal,
		Text:       text,
		TokenCount: tokenCount,
	}
}
