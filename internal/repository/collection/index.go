package collection

import "github.com/godex-dev/godex/internal/db"

// buildIndex defines the FT index for one collection: chunk text as TEXT,
// source path as TAG, and an HNSW/COSINE vector field.
func buildIndex(name string, vectorDim int, hnsw HNSWConfig) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     indexName(name),
		Prefixes: []string{chunkPrefix(name)},
		Fields: []db.IndexField{
			{Name: "text", Type: db.IndexFieldText},
			{Name: "source", Type: db.IndexFieldTag},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           hnsw.M,
				VectorEFConstruct: hnsw.EFConstruct,
			},
		},
	}
}
