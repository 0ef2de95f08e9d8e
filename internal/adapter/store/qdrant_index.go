package store

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"learnify-core/internal/domain/entity"
)

// QdrantIndex answers similarity queries over knowledge chunks produced by
// the offline content-acquisition job. The core only reads; writes belong to
// that job.
type QdrantIndex struct {
	client         *qdrant.Client
	collectionName string
}

func NewQdrantIndex(client *qdrant.Client, collectionName string) *QdrantIndex {
	return &QdrantIndex{
		client:         client,
		collectionName: collectionName,
	}
}

func (s *QdrantIndex) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.NotFound {
			err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
				CollectionName: s.collectionName,
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     dim,
					Distance: qdrant.Distance_Cosine,
				}),
			})
			if err != nil {
				return fmt.Errorf("failed to create collection: %w", err)
			}
		} else {
			return err
		}
	}

	// Index the content type for filtered retrieval.
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collectionName,
		FieldName:      "content_type",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		log.WithError(err).Warn("could not create content_type index (might already exist)")
	}

	return nil
}

func (s *QdrantIndex) Search(ctx context.Context, vector []float32, threshold float32, limit int) ([]entity.KnowledgeItem, error) {
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		ScoreThreshold: &threshold,
	})
	if err != nil {
		return nil, err
	}

	items := make([]entity.KnowledgeItem, 0, len(res))
	for _, hit := range res {
		payload := hit.Payload
		items = append(items, entity.KnowledgeItem{
			ID:           payload["content_id"].GetStringValue(),
			Content:      payload["content_chunk"].GetStringValue(),
			Type:         payload["content_type"].GetStringValue(),
			Title:        payload["title"].GetStringValue(),
			Similarity:   float64(hit.Score),
			SearchMethod: entity.MethodVector,
		})
	}
	return items, nil
}
