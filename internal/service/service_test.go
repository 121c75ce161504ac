package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreecharana24/URL-shortner/internal/shortcode"
	"github.com/Shreecharana24/URL-shortner/internal/storage"
	"github.com/Shreecharana24/URL-shortner/internal/storage/memory"
)

func newTestService(t *testing.T, modulusBits uint) *URLService {
	t.Helper()

	gen, err := shortcode.New(modulusBits, shortcode.DefaultMultiplier)
	require.NoError(t, err)

	return New(gen, memory.New(memory.DefaultBucketCount), nil)
}

func TestURLService_ShortenURL(t *testing.T) {
	ctx := context.Background()

	t.Run("generates a fixed-length code", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		rec, err := svc.ShortenURL(ctx, "https://example.com/a")

		require.NoError(t, err)
		assert.Len(t, rec.ShortCode, shortcode.CodeLength)
		assert.Equal(t, "https://example.com/a", rec.OriginalURL)
		assert.False(t, rec.CreatedAt.IsZero())
	})

	t.Run("idempotent per url", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		first, err := svc.ShortenURL(ctx, "https://example.com/a")
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			again, err := svc.ShortenURL(ctx, "https://example.com/a")
			require.NoError(t, err)
			assert.Equal(t, first.ShortCode, again.ShortCode)
		}

		urls, err := svc.ListURLs(ctx)
		require.NoError(t, err)
		assert.Len(t, urls, 1)
	})

	t.Run("distinct urls get distinct codes", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		codes := make(map[string]struct{})
		for i := 0; i < 500; i++ {
			rec, err := svc.ShortenURL(ctx, fmt.Sprintf("https://example.com/%d", i))
			require.NoError(t, err)
			codes[rec.ShortCode] = struct{}{}
		}

		assert.Len(t, codes, 500)
	})

	t.Run("capacity exhausted", func(t *testing.T) {
		// 2 modulus bits leave room for exactly 4 live records.
		svc := newTestService(t, 2)

		for i := 0; i < 4; i++ {
			_, err := svc.ShortenURL(ctx, fmt.Sprintf("https://example.com/%d", i))
			require.NoError(t, err)
		}

		_, err := svc.ShortenURL(ctx, "https://example.com/one-too-many")

		assert.ErrorIs(t, err, ErrCapacityExhausted)
	})

	t.Run("deleting frees capacity", func(t *testing.T) {
		svc := newTestService(t, 2)

		var last string
		for i := 0; i < 4; i++ {
			rec, err := svc.ShortenURL(ctx, fmt.Sprintf("https://example.com/%d", i))
			require.NoError(t, err)
			last = rec.ShortCode
		}

		require.NoError(t, svc.DeleteURL(ctx, last))

		_, err := svc.ShortenURL(ctx, "https://example.com/replacement")
		assert.NoError(t, err)
	})
}

func TestURLService_ResolveShortCode(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		rec, err := svc.ShortenURL(ctx, "https://example.com/a")
		require.NoError(t, err)

		got, err := svc.ResolveShortCode(ctx, rec.ShortCode)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", got.OriginalURL)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		_, err := svc.ResolveShortCode(ctx, "0000000")

		assert.ErrorIs(t, err, storage.ErrCodeNotFound)
	})
}

func TestURLService_DeleteURL(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		err := svc.DeleteURL(ctx, "0000000")

		assert.ErrorIs(t, err, storage.ErrCodeNotFound)
	})

	t.Run("delete completeness", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		rec, err := svc.ShortenURL(ctx, "https://example.com/a")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteURL(ctx, rec.ShortCode))

		_, err = svc.ResolveShortCode(ctx, rec.ShortCode)
		assert.ErrorIs(t, err, storage.ErrCodeNotFound)

		urls, err := svc.ListURLs(ctx)
		require.NoError(t, err)
		assert.Empty(t, urls)

		// The counter never rolls back, so the same URL gets a fresh code.
		again, err := svc.ShortenURL(ctx, "https://example.com/a")
		require.NoError(t, err)
		assert.NotEqual(t, rec.ShortCode, again.ShortCode)
	})
}

func TestURLService_ListURLs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, shortcode.DefaultModulusBits)

	want := make(map[string]string)
	for i := 0; i < 20; i++ {
		url := fmt.Sprintf("https://example.com/%d", i)
		rec, err := svc.ShortenURL(ctx, url)
		require.NoError(t, err)
		want[rec.ShortCode] = url
	}

	urls, err := svc.ListURLs(ctx)
	require.NoError(t, err)

	got := make(map[string]string)
	for _, rec := range urls {
		got[rec.ShortCode] = rec.OriginalURL
	}
	assert.Equal(t, want, got)
}

func TestURLService_Stats(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, shortcode.DefaultModulusBits)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.CodeBuckets)
	assert.Zero(t, stats.URLBuckets)

	for i := 0; i < 10; i++ {
		_, err := svc.ShortenURL(ctx, fmt.Sprintf("https://example.com/%d", i))
		require.NoError(t, err)
	}

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Positive(t, stats.CodeBuckets)
	assert.Positive(t, stats.URLBuckets)
	assert.LessOrEqual(t, stats.CodeBuckets, 10)
	assert.LessOrEqual(t, stats.URLBuckets, 10)
}

func TestURLService_Close(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, shortcode.DefaultModulusBits)

	_, err := svc.ShortenURL(ctx, "https://example.com/a")
	require.NoError(t, err)

	svc.Close()

	urls, err := svc.ListURLs(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestURLService_ConcurrentShorten(t *testing.T) {
	ctx := context.Background()

	t.Run("same url yields one record", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		const workers = 32
		codes := make([]string, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec, err := svc.ShortenURL(ctx, "https://example.com/contended")
				assert.NoError(t, err)
				codes[i] = rec.ShortCode
			}(i)
		}
		wg.Wait()

		for i := 1; i < workers; i++ {
			assert.Equal(t, codes[0], codes[i])
		}

		urls, err := svc.ListURLs(ctx)
		require.NoError(t, err)
		assert.Len(t, urls, 1)
	})

	t.Run("distinct urls stay distinct", func(t *testing.T) {
		svc := newTestService(t, shortcode.DefaultModulusBits)

		const workers = 64
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := svc.ShortenURL(ctx, fmt.Sprintf("https://example.com/%d", i))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		urls, err := svc.ListURLs(ctx)
		require.NoError(t, err)
		assert.Len(t, urls, workers)

		codes := make(map[string]struct{}, workers)
		for _, rec := range urls {
			codes[rec.ShortCode] = struct{}{}
		}
		assert.Len(t, codes, workers)
	})
}
