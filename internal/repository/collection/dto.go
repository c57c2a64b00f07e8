package collection

import (
	"strconv"

	"github.com/godex-dev/godex/internal/domain"
)

// collectionToHash converts a domain Collection to a map for HSET.
func collectionToHash(col domain.Collection, dim int) map[string]string {
	return map[string]string{
		"name":       col.Name,
		"vector_dim": strconv.Itoa(dim),
		"created_at": strconv.FormatInt(col.CreatedAt, 10),
	}
}

// collectionFromHash hydrates a domain Collection from an HGETALL result map.
func collectionFromHash(m map[string]string, defaultVectorDim int) domain.Collection {
	col := domain.Collection{Name: m["name"], VectorDim: defaultVectorDim}

	if dimStr := m["vector_dim"]; dimStr != "" {
		if parsed, err := strconv.Atoi(dimStr); err == nil {
			col.VectorDim = parsed
		}
	}
	if createdStr := m["created_at"]; createdStr != "" {
		if parsed, err := strconv.ParseInt(createdStr, 10, 64); err == nil {
			col.CreatedAt = parsed
		}
	}

	return col
}
