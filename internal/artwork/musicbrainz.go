package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/llehouerou/airwaves/internal/metadata"
)

const (
	musicBrainzURL = "https://musicbrainz.org/ws/2"
	coverArtURL    = "https://coverartarchive.org"
)

// MusicBrainz finds the release of a recording and points at its Cover Art
// Archive front image. Requests are limited to one per second, as the
// MusicBrainz API requires.
type MusicBrainz struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	apiURL      string
	coverArtURL string
	size        int
	userAgent   string
}

// NewMusicBrainz creates a MusicBrainz resolver. The user agent must
// identify the application, as MusicBrainz rejects anonymous clients.
func NewMusicBrainz(size int, userAgent string) *MusicBrainz {
	return &MusicBrainz{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
		apiURL:      musicBrainzURL,
		coverArtURL: coverArtURL,
		size:        size,
		userAgent:   userAgent,
	}
}

// Resolve implements Resolver. The returned URL is not checked for
// existence; the Cover Art Archive redirects to the image when it has one.
func (c *MusicBrainz) Resolve(ctx context.Context, md metadata.Metadata) (*url.URL, error) {
	if md.Artist == "" || md.Track == "" {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("artist:\"%s\" AND recording:\"%s\"",
		stripQuotes(md.Artist), stripQuotes(md.Track)))
	params.Set("fmt", "json")
	params.Set("limit", "5")

	reqURL := fmt.Sprintf("%s/recording?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
	}

	var result recordingSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	for _, rec := range result.Recordings {
		for _, rel := range rec.Releases {
			if rel.ID != "" {
				return url.Parse(fmt.Sprintf("%s/release/%s/front-%d",
					c.coverArtURL, rel.ID, coverArtThumbnail(c.size)))
			}
		}
	}
	return nil, nil
}

// coverArtThumbnail maps a requested edge size to one of the thumbnail
// sizes the Cover Art Archive serves.
func coverArtThumbnail(size int) int {
	switch {
	case size <= 250:
		return 250
	case size <= 500:
		return 500
	default:
		return 1200
	}
}

type recordingSearchResponse struct {
	Count      int         `json:"count"`
	Recordings []recording `json:"recordings"`
}

type recording struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Score    int              `json:"score"`
	Releases []releaseSummary `json:"releases"`
}

type releaseSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
