// Package service implements the mapping engine: it orchestrates code
// generation, the dual index, and the sequence counter behind one lock
// domain so the two index tables never diverge.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shreecharana24/URL-shortner/internal/models"
	"github.com/Shreecharana24/URL-shortner/internal/shortcode"
	"github.com/Shreecharana24/URL-shortner/internal/storage"
	"github.com/Shreecharana24/URL-shortner/internal/storage/memory"
)

// ErrCapacityExhausted is returned when every identity in the scramble space
// belongs to a live record, so no new code can be generated.
var ErrCapacityExhausted = errors.New("short code space exhausted")

// Occupancy reports how many buckets in each index table hold at least one
// record.
type Occupancy struct {
	CodeBuckets int
	URLBuckets  int
}

// URLService is the mapping engine. The mutex is the single exclusion
// domain covering the sequence counter and both index tables: every
// lookup-then-mutate sequence runs under it in full, which is what keeps
// one URL from ever acquiring two codes.
type URLService struct {
	mu     sync.RWMutex
	gen    *shortcode.Generator
	index  *memory.Index
	seq    uint64
	logger *zap.SugaredLogger
}

// New creates a URLService around the given generator and index. The
// sequence counter starts at 1 and is never reused or rolled back.
func New(gen *shortcode.Generator, index *memory.Index, logger *zap.SugaredLogger) *URLService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &URLService{
		gen:    gen,
		index:  index,
		seq:    1,
		logger: logger.Named("engine"),
	}
}

// ShortenURL returns the short code mapping for originalURL, creating one if
// none exists. Repeated calls for the same URL return the same record until
// it is deleted. The sequence counter advances on every generation attempt,
// including ones that collide with a live code.
func (s *URLService) ShortenURL(ctx context.Context, originalURL string) (*models.URL, error) {
	const op = "service.URLService.ShortenURL"

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.index.LookupURL(originalURL); ok {
		return rec, nil
	}

	modulus := s.gen.Modulus()
	if uint64(s.index.Len()) >= modulus {
		return nil, fmt.Errorf("%s: %w", op, ErrCapacityExhausted)
	}

	// The scramble is a bijection on [0, modulus), so collisions come only
	// from live records and a free code exists within one full sweep.
	for attempts := uint64(0); attempts < modulus; attempts++ {
		code, err := s.gen.Code(s.seq % modulus)
		s.seq++
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		if _, ok := s.index.LookupCode(code); ok {
			continue
		}

		rec := &models.URL{
			ShortCode:   code,
			OriginalURL: originalURL,
			CreatedAt:   time.Now(),
		}
		s.index.Insert(rec)

		s.logger.Debugw("mapping created", "short_code", code, "live_records", s.index.Len())
		return rec, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrCapacityExhausted)
}

// ResolveShortCode retrieves the record associated with the given short code.
func (s *URLService) ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.ResolveShortCode"

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.index.LookupCode(shortCode)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrCodeNotFound)
	}

	return rec, nil
}

// DeleteURL removes the mapping for the given short code from both index
// tables. A later ShortenURL for the same URL generates a fresh code, since
// the sequence counter never moves backwards.
func (s *URLService) DeleteURL(ctx context.Context, shortCode string) error {
	const op = "service.URLService.DeleteURL"

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.index.Remove(shortCode)
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrCodeNotFound)
	}

	s.logger.Debugw("mapping deleted", "short_code", rec.ShortCode, "live_records", s.index.Len())
	return nil
}

// ListURLs returns a snapshot of all live records.
func (s *URLService) ListURLs(ctx context.Context) ([]*models.URL, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls := make([]*models.URL, 0, s.index.Len())
	for rec := range s.index.All() {
		urls = append(urls, rec)
	}

	return urls, nil
}

// Stats reports the non-empty bucket counts of both index tables.
func (s *URLService) Stats(ctx context.Context) (Occupancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codeBuckets, urlBuckets := s.index.Occupancy()

	return Occupancy{
		CodeBuckets: codeBuckets,
		URLBuckets:  urlBuckets,
	}, nil
}

// Close drops every live record. The engine stays usable afterwards, but
// deleted codes are never handed out again.
func (s *URLService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.index.Len()
	s.index.Clear()
	s.logger.Debugw("index cleared", "dropped_records", n)
}
