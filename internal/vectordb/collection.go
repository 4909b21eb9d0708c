package vectordb

import (
	"context"
	"fmt"
	"log"

	"github.com/qdrant/go-client/qdrant"
)

// EnsureCollection creates the collection if it doesn't exist
func (c *Client) EnsureCollection(ctx context.Context, name string, dimensions int) error {
	exists, err := c.qdrant.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = c.qdrant.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	// Create payload indexes for filtering
	indexes := []struct {
		field     string
		fieldType qdrant.FieldType
	}{
		{"issue_number", qdrant.FieldType_FieldTypeInteger},
		{"org", qdrant.FieldType_FieldTypeKeyword},
		{"repo", qdrant.FieldType_FieldTypeKeyword},
		{"state", qdrant.FieldType_FieldTypeKeyword},
	}

	for _, idx := range indexes {
		_, err = c.qdrant.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      idx.field,
			FieldType:      qdrant.PtrOf(idx.fieldType),
		})
		if err != nil {
			// Index creation failure is not fatal
			log.Printf("Warning: failed to create index for %s: %v", idx.field, err)
		}
	}

	return nil
}

// CollectionExists checks if a collection exists
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	return c.qdrant.CollectionExists(ctx, name)
}
