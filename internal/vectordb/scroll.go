package vectordb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

// StoredPoint is a record already present in the collection
type StoredPoint struct {
	ID       string
	Metadata map[string]any
}

// scrollFunc fetches up to limit points starting at offset (inclusive)
type scrollFunc func(ctx context.Context, offset *qdrant.PointId, limit uint32) ([]*qdrant.RetrievedPoint, error)

// ListAll returns every point in the collection with its payload.
// All scroll pages are drained; stopping early would let already indexed
// issues look new.
func (c *Client) ListAll(ctx context.Context, collection string, pageSize int) ([]StoredPoint, error) {
	scroll := func(ctx context.Context, offset *qdrant.PointId, limit uint32) ([]*qdrant.RetrievedPoint, error) {
		return c.qdrant.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Offset:         offset,
			Limit:          qdrant.PtrOf(limit),
			WithPayload:    qdrant.NewWithPayload(true),
		})
	}

	points, err := drain(ctx, scroll, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list points: %w", err)
	}
	return points, nil
}

// drain pages through scroll until it is exhausted.
// Each request asks for one extra point; that point becomes the next
// (inclusive) offset, so a short page means the end was reached.
func drain(ctx context.Context, scroll scrollFunc, pageSize int) ([]StoredPoint, error) {
	if pageSize <= 0 {
		pageSize = 256
	}

	var (
		all    []StoredPoint
		offset *qdrant.PointId
	)
	for {
		points, err := scroll(ctx, offset, uint32(pageSize+1))
		if err != nil {
			return nil, err
		}

		page := points
		if len(points) > pageSize {
			page = points[:pageSize]
		}
		for _, p := range page {
			all = append(all, StoredPoint{
				ID:       pointIDString(p.GetId()),
				Metadata: payloadToMap(p.GetPayload()),
			})
		}

		if len(points) <= pageSize {
			return all, nil
		}
		offset = points[pageSize].GetId()
	}
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// payloadToMap converts a Qdrant payload into plain Go values
func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := kind.ListValue.GetValues()
		list := make([]any, len(items))
		for i, item := range items {
			list[i] = valueToAny(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return payloadToMap(kind.StructValue.GetFields())
	default:
		return nil
	}
}
