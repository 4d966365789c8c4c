// Package audio renders commentary clips. The engine's TTS pipeline emits
// small mp3_22050_32 files; "playing" one on the backend means fetching it
// and pacing for its runtime so the event feed advances at listening speed.
package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// mp3_22050_32 is a 32 kbit/s stream, so 4000 bytes per second of audio.
const bytesPerSecond = 4000

// maxClipPacing caps how long a single clip may gate the pipeline, in case
// the engine ever hands back something oversized.
const maxClipPacing = 15 * time.Second

// ClipPlayer fetches a clip over HTTP and holds for its estimated duration.
type ClipPlayer struct {
	http *http.Client
	log  *zap.Logger
}

func NewClipPlayer(timeout time.Duration, log *zap.Logger) *ClipPlayer {
	return &ClipPlayer{
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// Play blocks until the clip has "played" or ctx is cancelled. Any fetch
// error is returned to the caller, which treats it as immediate completion.
func (p *ClipPlayer) Play(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build clip request: %w", err)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch clip: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch clip: unexpected status %s", resp.Status)
	}

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return fmt.Errorf("read clip: %w", err)
	}

	d := time.Duration(n/bytesPerSecond) * time.Second
	if d > maxClipPacing {
		d = maxClipPacing
	}
	p.log.Debug("pacing for clip", zap.String("url", url), zap.Duration("duration", d))

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NopPlayer completes every clip instantly. Used when audio is wired off.
type NopPlayer struct{}

func (NopPlayer) Play(ctx context.Context, url string) error { return nil }
