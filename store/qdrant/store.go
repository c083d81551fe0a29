package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	pb "github.com/qdrant/go-client/qdrant"
	"github.com/w-h-a/moviesearch/store"
)

// qdrantStore keeps movies as points with a named vector. A point counts as
// embedded once its embedding_model payload is set.
type qdrantStore struct {
	options    store.Options
	client     *pb.Client
	collection string
}

func (s *qdrantStore) Scan(ctx context.Context, query store.ScanQuery) ([]store.Movie, error) {
	if query.Limit < 1 {
		return nil, nil
	}

	req := &pb.ScrollPoints{
		CollectionName: s.collection,
		Filter: &pb.Filter{
			Must: []*pb.Condition{unembeddedCondition()},
		},
		Limit:       pb.PtrOf(uint32(query.Limit)),
		WithPayload: pb.NewWithPayloadInclude(fieldTitle, fieldPlot, fieldYear),
	}

	// Offset is inclusive, so ask for one extra point and drop the cursor.
	if len(query.After) > 0 {
		req.Offset = pointID(query.After)
		req.Limit = pb.PtrOf(uint32(query.Limit + 1))
	}

	points, err := s.client.Scroll(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("qdrant scroll failed: %w", err)
	}

	movies := make([]store.Movie, 0, len(points))

	for _, point := range points {
		m := payloadMovie(point.GetId(), point.GetPayload())
		if m.Id == query.After {
			continue
		}
		movies = append(movies, m)
	}

	if len(movies) > query.Limit {
		movies = movies[:query.Limit]
	}

	return movies, nil
}

func (s *qdrantStore) SetEmbedding(ctx context.Context, id string, embedding store.Embedding) error {
	pid := pointID(id)

	_, err := s.client.UpdateVectors(ctx, &pb.UpdatePointVectors{
		CollectionName: s.collection,
		Wait:           pb.PtrOf(true),
		Points: []*pb.PointVectors{
			{
				Id: pid,
				Vectors: pb.NewVectorsMap(map[string]*pb.Vector{
					s.options.VectorField: pb.NewVector(embedding.Vector...),
				}),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant update vectors failed for %s: %w", id, err)
	}

	_, err = s.client.SetPayload(ctx, &pb.SetPayloadPoints{
		CollectionName: s.collection,
		Wait:           pb.PtrOf(true),
		Payload: pb.NewValueMap(map[string]any{
			fieldModel:     embedding.Model,
			fieldTimestamp: embedding.Timestamp.Unix(),
		}),
		PointsSelector: pb.NewPointsSelector(pid),
	})
	if err != nil {
		return fmt.Errorf("qdrant set payload failed for %s: %w", id, err)
	}

	return nil
}

func (s *qdrantStore) Search(ctx context.Context, query store.SearchQuery) ([]store.Movie, error) {
	if query.Limit < 1 {
		return nil, nil
	}

	points, err := s.client.Query(ctx, &pb.QueryPoints{
		CollectionName: s.collection,
		Query:          pb.NewQuery(query.Vector...),
		Using:          pb.PtrOf(s.options.VectorField),
		Params: &pb.SearchParams{
			HnswEf: pb.PtrOf(uint64(store.CandidatePool(query.Candidates, query.Limit))),
		},
		Limit:       pb.PtrOf(uint64(query.Limit)),
		WithPayload: pb.NewWithPayloadInclude(fieldTitle, fieldPlot, fieldYear),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	movies := make([]store.Movie, 0, len(points))

	for _, point := range points {
		m := payloadMovie(point.GetId(), point.GetPayload())
		m.Score = store.DistanceFromSimilarity(float64(point.GetScore()))
		movies = append(movies, m)
	}

	return movies, nil
}

func (s *qdrantStore) Count(ctx context.Context, predicate store.Predicate) (int, error) {
	req := &pb.CountPoints{
		CollectionName: s.collection,
		Exact:          pb.PtrOf(true),
	}

	switch predicate {
	case store.Embedded:
		req.Filter = &pb.Filter{MustNot: []*pb.Condition{unembeddedCondition()}}
	case store.Unembedded:
		req.Filter = &pb.Filter{Must: []*pb.Condition{unembeddedCondition()}}
	}

	count, err := s.client.Count(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("qdrant count failed: %w", err)
	}

	return int(count), nil
}

func (s *qdrantStore) Recent(ctx context.Context, limit int) ([]store.Movie, error) {
	if limit < 1 {
		return nil, nil
	}

	points, err := s.client.Scroll(ctx, &pb.ScrollPoints{
		CollectionName: s.collection,
		Filter: &pb.Filter{
			MustNot: []*pb.Condition{unembeddedCondition()},
		},
		OrderBy: &pb.OrderBy{
			Key:       fieldTimestamp,
			Direction: pb.Direction_Desc.Enum(),
		},
		Limit:       pb.PtrOf(uint32(limit)),
		WithPayload: pb.NewWithPayload(true),
		WithVectors: pb.NewWithVectorsInclude(s.options.VectorField),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant scroll by %s failed: %w", fieldTimestamp, err)
	}

	movies := make([]store.Movie, 0, len(points))

	for _, point := range points {
		m := payloadMovie(point.GetId(), point.GetPayload())
		if named := point.GetVectors().GetVectors().GetVectors(); named != nil {
			m.Embedding = named[s.options.VectorField].GetData()
		}
		movies = append(movies, m)
	}

	return movies, nil
}

func (s *qdrantStore) Close() error {
	return s.client.Close()
}

func (s *qdrantStore) configure(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("qdrant collection %q does not exist", s.collection)
	}

	if s.options.VectorSize == 0 {
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return err
	}

	return checkVectorParams(info.GetConfig().GetParams().GetVectorsConfig(), s.options.VectorField, s.options.VectorSize)
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	ep, err := parseLocation(options.Location)
	if err != nil {
		detail := "invalid location for qdrant movie store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	if len(ep.collection) == 0 {
		ep.collection = options.Collection
	}

	if len(options.ApiKey) > 0 {
		ep.apiKey = options.ApiKey
	}

	client, err := pb.NewClient(&pb.Config{
		Host:   ep.host,
		Port:   ep.port,
		APIKey: ep.apiKey,
		UseTLS: ep.tls,
	})
	if err != nil {
		detail := "failed to connect with qdrant movie store"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	s := &qdrantStore{
		options:    options,
		client:     client,
		collection: ep.collection,
	}

	if err := s.configure(context.Background()); err != nil {
		detail := "failed to verify qdrant movie collection"
		slog.ErrorContext(context.Background(), detail, "collection", ep.collection, "error", err)
		panic(detail)
	}

	return s
}
