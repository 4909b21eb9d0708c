package vectordb

import (
	"context"
	"fmt"

	"github.com/Kavirubc/simili-backfill/pkg/models"
	"github.com/qdrant/go-client/qdrant"
)

// UpsertRecords writes a batch of records in a single call.
// The call waits for the write to be applied so a following run sees it.
func (c *Client) UpsertRecords(ctx context.Context, collection string, records []*models.IndexRecord) error {
	points := make([]*qdrant.PointStruct, len(records))
	for i, record := range records {
		points[i] = recordToPoint(record)
	}

	_, err := c.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("batch upsert failed: %w", err)
	}
	return nil
}

// recordToPoint converts an IndexRecord to a Qdrant point
func recordToPoint(record *models.IndexRecord) *qdrant.PointStruct {
	md := record.Metadata

	return &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(record.PointID()),
		Vectors: qdrant.NewVectors(record.Values...),
		Payload: map[string]*qdrant.Value{
			"record_id":    qdrant.NewValueString(record.ID),
			"org":          qdrant.NewValueString(md.Org),
			"repo":         qdrant.NewValueString(md.Repo),
			"issue_number": qdrant.NewValueInt(int64(md.IssueNumber)),
			"title":        qdrant.NewValueString(md.Title),
			"content":      qdrant.NewValueString(md.Content),
			"created_at":   qdrant.NewValueString(md.CreatedAt),
			"updated_at":   qdrant.NewValueString(md.UpdatedAt),
			"url":          qdrant.NewValueString(md.URL),
			"state":        qdrant.NewValueString(md.State),
			"labels":       qdrant.NewValueString(md.Labels),
			"author":       qdrant.NewValueString(md.Author),
			"body_hash":    qdrant.NewValueString(md.BodyHash),
		},
	}
}
