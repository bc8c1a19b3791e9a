package vectorstore

import (
	"context"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mpetrun5/rag-docs/internal/domain"
	"github.com/mpetrun5/rag-docs/internal/errors"
	"github.com/mpetrun5/rag-docs/internal/logger"
	"github.com/qdrant/go-client/qdrant"
)

// pointIDSpace seeds the deterministic UUIDv5 derivation of point ids from
// chunk ids, which are content-hash based and not valid point ids themselves.
var pointIDSpace = uuid.MustParse("8a9e7c1d-2f34-4b56-9a78-0c1d2e3f4a5b")

// QdrantStore is the Qdrant-backed vector index client. Namespaces are
// modeled as a payload field folded into every filter; Qdrant itself has no
// namespace primitive.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore creates a new Qdrant vector store client.
func NewQdrantStore(url string, collection string) (*QdrantStore, error) {
	// Accept http://host:port, host:port, or bare host. The go-client is
	// gRPC based, so the HTTP port 6333 maps to 6334.
	host := "localhost"
	port := 6334

	cleanURL := strings.TrimPrefix(url, "http://")
	cleanURL = strings.TrimPrefix(cleanURL, "https://")

	if h, p, err := net.SplitHostPort(cleanURL); err == nil {
		host = h
		if pi, err := strconv.Atoi(p); err == nil {
			if pi == 6333 {
				port = 6334
			} else {
				port = pi
			}
		}
	} else if cleanURL != "" {
		host = cleanURL
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeExternal, "failed to create Qdrant client")
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
	}, nil
}

// PointID returns the deterministic point id for a chunk id.
func PointID(chunkID string) string {
	return uuid.NewSHA1(pointIDSpace, []byte(chunkID)).String()
}

// EnsureCollection creates the collection with cosine distance if missing.
func (s *QdrantStore) EnsureCollection(ctx context.Context, dimension int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExternal, "failed to check collection existence")
	}
	if exists {
		return nil
	}

	logger.Info("Creating Qdrant collection", "name", s.collection, "dimension", dimension)
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExternal, "failed to create collection")
	}
	return nil
}

// Upsert writes embedded chunks into the collection under a namespace.
func (s *QdrantStore) Upsert(ctx context.Context, chunks []domain.Chunk, namespace string) error {
	points := make([]*qdrant.PointStruct, 0, len(chunks))

	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			logger.Warn("Skipping chunk without embedding", "id", chunk.ID)
			continue
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(chunk.ID)),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(preparePayload(chunk, namespace)),
		})
	}

	if len(points) == 0 {
		return nil
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExternal, "failed to upsert points to Qdrant")
	}

	logger.Debug("Upserted chunks", "count", len(points), "namespace", namespace)
	return nil
}

// Query runs a similarity search and returns ranked raw hits.
func (s *QdrantStore) Query(ctx context.Context, vector []float32, topK int, filter *domain.Filter, namespace string) ([]domain.SearchResult, error) {
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		Filter:         buildFilter(filter, namespace),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeExternal, "failed to query Qdrant")
	}

	results := make([]domain.SearchResult, len(resp))
	for i, point := range resp {
		metadata := payloadToMap(point.Payload)
		id := point.Id.GetUuid()
		if chunkID, ok := metadata["chunk_id"].(string); ok && chunkID != "" {
			id = chunkID
		}
		results[i] = domain.SearchResult{
			ID:       id,
			Score:    point.Score,
			Metadata: metadata,
		}
	}
	return results, nil
}

// Delete removes chunks by id.
func (s *QdrantStore) Delete(ctx context.Context, chunkIDs []string, namespace string) error {
	ids := make([]*qdrant.PointId, len(chunkIDs))
	for i, id := range chunkIDs {
		ids[i] = qdrant.NewID(PointID(id))
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: ids},
			},
		},
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExternal, "failed to delete points from Qdrant")
	}

	logger.Info("Deleted chunks", "count", len(chunkIDs), "namespace", namespace)
	return nil
}

// DeleteByFilter removes every chunk matching the filter within a namespace.
func (s *QdrantStore) DeleteByFilter(ctx context.Context, filter *domain.Filter, namespace string) error {
	qf := buildFilter(filter, namespace)
	if qf == nil {
		// Match-all selector: delete the whole collection contents.
		qf = &qdrant.Filter{}
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(qf),
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeExternal, "failed to delete points by filter")
	}

	logger.Info("Deleted chunks by filter", "namespace", namespace)
	return nil
}

// ClearNamespace removes everything stored under the namespace.
func (s *QdrantStore) ClearNamespace(ctx context.Context, namespace string) error {
	return s.DeleteByFilter(ctx, nil, namespace)
}

// Stats reports the total vector count, dimension, and per-namespace counts
// for the namespaces the caller asks about.
func (s *QdrantStore) Stats(ctx context.Context, namespaces ...string) (*domain.IndexStats, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeExternal, "failed to get collection info")
	}

	stats := &domain.IndexStats{}
	if info.PointsCount != nil {
		stats.TotalVectors = *info.PointsCount
	}
	if params := info.GetConfig().GetParams().GetVectorsConfig().GetParams(); params != nil {
		stats.Dimension = params.Size
	}

	if len(namespaces) > 0 {
		stats.Namespaces = make(map[string]uint64, len(namespaces))
		for _, ns := range namespaces {
			if ns == "" {
				continue
			}
			count, err := s.client.Count(ctx, &qdrant.CountPoints{
				CollectionName: s.collection,
				Filter:         buildFilter(nil, ns),
			})
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeExternal, "failed to count namespace points")
			}
			stats.Namespaces[ns] = count
		}
	}

	return stats, nil
}

// payloadToMap converts a Qdrant payload into plain Go values.
func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		items := make([]any, 0, len(kind.ListValue.GetValues()))
		for _, item := range kind.ListValue.GetValues() {
			items = append(items, valueToAny(item))
		}
		return items
	case *qdrant.Value_StructValue:
		fields := make(map[string]any, len(kind.StructValue.GetFields()))
		for k, item := range kind.StructValue.GetFields() {
			fields[k] = valueToAny(item)
		}
		return fields
	default:
		return nil
	}
}
