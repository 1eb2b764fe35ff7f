package playback

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/artwork"
	"github.com/llehouerou/airwaves/internal/metadata"
)

// trackArtwork resolves every track to an image named after it.
var trackArtwork = artwork.ResolverFunc(func(_ context.Context, md metadata.Metadata) (*url.URL, error) {
	return url.Parse("https://img.example.com/" + url.PathEscape(md.Track) + ".jpg")
})

// gatedResolver holds lookups for the given track until release is closed.
func gatedResolver(track string, release <-chan struct{}) artwork.Resolver {
	return artwork.ResolverFunc(func(ctx context.Context, md metadata.Metadata) (*url.URL, error) {
		if md.Track == track {
			<-release
		}
		return trackArtwork(ctx, md)
	})
}

func artworkEvents(rec *recorder) []*Artwork {
	var out []*Artwork
	for _, ev := range rec.all() {
		if c, ok := ev.(ArtworkChange); ok {
			out = append(out, c.Artwork)
		}
	}
	return out
}

func TestArtwork_ResolvedForMetadata(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, m, rec := newTestEngine(t, func(o *Options) { o.Resolver = trackArtwork })
		item := startPlaying(t, e, m, radioURL)

		item.Observer().TimedMetadata([]string{"Artist - Song"})
		synctest.Wait()

		a := e.Artwork()
		require.NotNil(t, a)
		assert.Equal(t, "https://img.example.com/Song.jpg", a.URL.String())
		assert.Equal(t, metadata.Metadata{Artist: "Artist", Track: "Song", Raw: "Artist - Song"}, a.For)
		assert.Len(t, artworkEvents(rec), 1)
	})
}

func TestArtwork_StaleResultDropped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		e, m, rec := newTestEngine(t, func(o *Options) { o.Resolver = gatedResolver("First", release) })
		item := startPlaying(t, e, m, radioURL)

		item.Observer().TimedMetadata([]string{"Artist - First"})
		synctest.Wait()
		item.Observer().TimedMetadata([]string{"Artist - Second"})
		synctest.Wait()

		close(release)
		synctest.Wait()

		a := e.Artwork()
		require.NotNil(t, a)
		assert.Equal(t, "Second", a.For.Track)
		for _, ev := range artworkEvents(rec) {
			if ev != nil {
				assert.NotEqual(t, "First", ev.For.Track, "stale artwork published")
			}
		}
	})
}

func TestArtwork_ClearedWhenMetadataChanges(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		e, m, _ := newTestEngine(t, func(o *Options) { o.Resolver = gatedResolver("Slow", release) })
		item := startPlaying(t, e, m, radioURL)

		item.Observer().TimedMetadata([]string{"Artist - Fast"})
		synctest.Wait()
		require.NotNil(t, e.Artwork())

		item.Observer().TimedMetadata([]string{"Artist - Slow"})
		synctest.Wait()
		assert.Nil(t, e.Artwork(), "previous artwork must not outlive its metadata")

		close(release)
		synctest.Wait()
		require.NotNil(t, e.Artwork())
		assert.Equal(t, "Slow", e.Artwork().For.Track)
	})
}

func TestArtwork_DroppedAfterSourceChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		e, m, rec := newTestEngine(t, func(o *Options) { o.Resolver = gatedResolver("Track", release) })
		item := startPlaying(t, e, m, radioURL)

		item.Observer().TimedMetadata([]string{"Artist - Track"})
		synctest.Wait()
		e.SetSource(NewSource(otherURL, nil))
		synctest.Wait()
		rec.reset()

		close(release)
		synctest.Wait()

		assert.Nil(t, e.Artwork())
		assert.Empty(t, artworkEvents(rec))
	})
}

func TestArtwork_ResolverErrorLeavesNoArtwork(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		failing := artwork.ResolverFunc(func(context.Context, metadata.Metadata) (*url.URL, error) {
			return nil, errors.New("rate limited")
		})
		e, m, rec := newTestEngine(t, func(o *Options) { o.Resolver = failing })
		item := startPlaying(t, e, m, radioURL)

		item.Observer().TimedMetadata([]string{"Artist - Track"})
		synctest.Wait()

		assert.Nil(t, e.Artwork())
		assert.Empty(t, rec.errors(), "artwork failures are not playback errors")
		assert.NotEqual(t, StateError, e.PlayerState())
	})
}

func TestArtwork_Disabled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		counting := artwork.ResolverFunc(func(ctx context.Context, md metadata.Metadata) (*url.URL, error) {
			calls.Add(1)
			return trackArtwork(ctx, md)
		})
		e, m, _ := newTestEngine(t, func(o *Options) {
			o.Resolver = counting
			o.ArtworkEnabled = false
		})
		item := startPlaying(t, e, m, radioURL)

		item.Observer().TimedMetadata([]string{"Artist - Track"})
		synctest.Wait()

		assert.NotNil(t, e.Metadata())
		assert.Nil(t, e.Artwork())
		assert.Zero(t, calls.Load())
	})
}

func TestArtwork_ClearedOnStop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		e, m, _ := newTestEngine(t, func(o *Options) { o.Resolver = trackArtwork })
		item := startPlaying(t, e, m, radioURL)
		item.Observer().TimedMetadata([]string{"Artist - Track"})
		synctest.Wait()
		require.NotNil(t, e.Artwork())

		e.Stop()
		synctest.Wait()

		assert.Nil(t, e.Artwork())
		assert.Nil(t, e.Metadata())
	})
}
