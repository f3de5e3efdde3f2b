package qdrantDB

import (
	"context"

	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/internal/domain/policyModel"
	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Qdrant only accepts UUID or integer point ids, so the deterministic
// record id is hashed through a fixed namespace. Same record id, same
// point id - upsert semantics survive the mapping.
var pointNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

type DB struct {
	client     *qdrant.Client
	collection string
	dimension  uint64
	batchSize  int
	logger     *logger_i.Logger
}

func New(cfg *config.Config) (*DB, error) {
	const op = "qdrantDB.New"

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.QdrantHost,
		Port:     cfg.QdrantPort,
		APIKey:   cfg.QdrantAPIKey,
		UseTLS:   cfg.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, ragError.Wrap(ragError.KindConfiguration, op, err)
	}

	batchSize := cfg.UpsertBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &DB{
		client:     client,
		collection: cfg.QdrantCollection,
		dimension:  uint64(cfg.EmbeddingDimension),
		batchSize:  batchSize,
		logger:     logger_i.NewLogger("Qdrant"),
	}, nil
}

func (db *DB) EnsureCollection(ctx context.Context) error {
	const op = "qdrantDB.EnsureCollection"

	exists, err := db.client.CollectionExists(ctx, db.collection)
	if err != nil {
		return ragError.Wrap(ragError.KindIndex, op, err)
	}
	if exists {
		return nil
	}

	err = db.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return ragError.Wrap(ragError.KindIndex, op, err)
	}
	db.logger.Info("Created collection", "name", db.collection, "dimension", db.dimension)
	return nil
}

func (db *DB) Upsert(ctx context.Context, records []policyModel.IndexRecord) (int, []policyModel.BatchResult, error) {
	const op = "qdrantDB.Upsert"
	log := db.logger.WithTrace(ctx)

	//dimension mismatches abort the whole call before anything is written
	for _, record := range records {
		if uint64(len(record.Vector)) != db.dimension {
			return 0, nil, ragError.Newf(ragError.KindConfiguration, op,
				"record %s has vector length %d, index expects %d", record.ID, len(record.Vector), db.dimension)
		}
	}

	written := 0
	var results []policyModel.BatchResult

	for i := 0; i < len(records); i += db.batchSize {
		end := i + db.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[i:end]
		batchIndex := i / db.batchSize

		_, err := db.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: db.collection,
			Points:         toPoints(batch),
			Wait:           qdrant.PtrOf(true),
		})

		result := policyModel.BatchResult{Batch: batchIndex, Size: len(batch)}
		if err != nil {
			result.Err = ragError.Wrap(ragError.KindIndex, op, err)
			log.Error("Upsert batch failed", "batch", batchIndex, "error", err)
		} else {
			written += len(batch)
		}
		results = append(results, result)
	}

	return written, results, nil
}

func (db *DB) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]policyModel.Match, error) {
	const op = "qdrantDB.Query"
	log := db.logger.WithTrace(ctx)

	if topK <= 0 {
		return nil, ragError.Newf(ragError.KindValidation, op, "topK must be positive, got %d", topK)
	}
	if uint64(len(vector)) != db.dimension {
		return nil, ragError.Newf(ragError.KindConfiguration, op,
			"query vector length %d, index expects %d", len(vector), db.dimension)
	}

	result, err := db.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(includeMetadata),
	})
	if err != nil {
		log.Error("Error querying Qdrant", "error", err)
		return nil, ragError.Wrap(ragError.KindIndex, op, err)
	}

	matches := make([]policyModel.Match, 0, len(result))
	for _, hit := range result {
		match := policyModel.Match{Score: hit.Score}
		if includeMetadata {
			match.Source = hit.Payload["source"].GetStringValue()
			match.Preview = hit.Payload["content_preview"].GetStringValue()
		}
		matches = append(matches, match)
	}

	log.Debug("Query returned", "matches", len(matches))
	return matches, nil
}

func (db *DB) PruneStale(ctx context.Context, source string, fromIndex int) error {
	const op = "qdrantDB.PruneStale"

	_, err := db.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("source", source),
				qdrant.NewRange("chunk_index", &qdrant.Range{
					Gte: qdrant.PtrOf(float64(fromIndex)),
				}),
			},
		}),
		Wait: qdrant.PtrOf(true),
	})
	return ragError.Wrap(ragError.KindIndex, op, err)
}

func (db *DB) Close() error {
	return db.client.Close()
}

func toPoints(records []policyModel.IndexRecord) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, len(records))
	for i, record := range records {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(record.ID)),
			Vectors: qdrant.NewVectors(record.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"record_id":       record.ID,
				"source":          record.Metadata.Source,
				"chunk_index":     record.Metadata.ChunkIndex,
				"total_chunks":    record.Metadata.TotalChunks,
				"content_preview": record.Metadata.ContentPreview,
				"type":            record.Metadata.Type,
				"char_count":      record.Metadata.CharCount,
			}),
		}
	}
	return points
}

func pointID(recordID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(recordID)).String()
}
