package ingestion

import (
	"github.com/pgvector/pgvector-go"
	"github.com/upb/ragvault/providers"
)

func toPgvector(v []float32) pgvector.Vector {
	return pgvector.NewVector(v)
}

func translateProviderErr(err error) error {
	return providers.AsDomainError(err)
}
