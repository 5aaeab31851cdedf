package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"stayhub-backend/application/ports"
	"stayhub-backend/infrastructure/cache"
)

// ReferenceKinds are the static id lists search filters draw from.
var ReferenceKinds = []string{"equipments", "services", "meals", "securities", "room_types"}

const (
	refKeyPrefix = "ref:"
	refTTL       = time.Hour
)

// ReferenceService serves the static reference lists through the cache.
// The lists change rarely, so they get a long TTL under fixed keys.
type ReferenceService struct {
	store  cache.Store
	source ports.ReferenceLists
	logger *zap.Logger
}

// NewReferenceService creates the reference list service.
func NewReferenceService(store cache.Store, source ports.ReferenceLists, logger *zap.Logger) *ReferenceService {
	return &ReferenceService{
		store:  store,
		source: source,
		logger: logger,
	}
}

// Get returns one reference list, from cache when possible.
func (s *ReferenceService) Get(ctx context.Context, kind string) ([]string, error) {
	key := refKeyPrefix + kind

	if raw, err := s.store.Get(ctx, key); err == nil {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			return ids, nil
		}
	}

	ids, err := s.source.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(ids); err == nil {
		s.store.Set(ctx, key, string(payload), refTTL)
	}

	return ids, nil
}

// GetAll fetches every reference list concurrently. The lists live
// under disjoint keys, so the fetches need no coordination beyond
// collecting results.
func (s *ReferenceService) GetAll(ctx context.Context) (map[string][]string, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	lists := make(map[string][]string, len(ReferenceKinds))

	for _, kind := range ReferenceKinds {
		wg.Add(1)
		go func(kind string) {
			defer wg.Done()

			ids, err := s.Get(ctx, kind)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			lists[kind] = ids
		}(kind)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return lists, nil
}
