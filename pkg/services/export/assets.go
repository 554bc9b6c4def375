package export

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ImageAsset is one embedded raster image of the report. Img is nil when the
// load failed or timed out; the renderer draws a placeholder in that case
// rather than failing the export.
type ImageAsset struct {
	URL string
	Img image.Image
}

// AssetLoader fetches embedded images before capture. Every load is bounded
// by a per-image timeout; a slow or broken link never blocks the export.
type AssetLoader struct {
	client  *http.Client
	timeout time.Duration
}

func NewAssetLoader(timeout time.Duration) *AssetLoader {
	if timeout <= 0 {
		timeout = DefaultConfig().Render.ImageTimeout
	}
	return &AssetLoader{
		client:  &http.Client{},
		timeout: timeout,
	}
}

// LoadAll resolves every URL concurrently and waits for all of them to reach
// a terminal state. The result preserves input order.
func (l *AssetLoader) LoadAll(ctx context.Context, urls []string) []ImageAsset {
	assets := make([]ImageAsset, len(urls))

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			img, err := l.load(ctx, u)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("url", u).Msg("image unavailable, rendering placeholder")
			}
			assets[i] = ImageAsset{URL: u, Img: img}
		}(i, u)
	}
	wg.Wait()

	return assets
}

func (l *AssetLoader) load(ctx context.Context, url string) (image.Image, error) {
	loadCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(loadCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
