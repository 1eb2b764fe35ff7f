package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/airwaves/internal/metadata"
)

// ITunes looks artwork up through the iTunes Search API.
type ITunes struct {
	httpClient *http.Client
	apiURL     string
	size       int
	userAgent  string
}

// NewITunes creates an iTunes resolver returning artwork of the given edge
// size. A size of 100 or less than 1 keeps the API's 100x100 thumbnails.
func NewITunes(size int, userAgent string) *ITunes {
	return &ITunes{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://itunes.apple.com/search",
		size:       size,
		userAgent:  userAgent,
	}
}

// Resolve searches with the cleaned title and returns the first result's
// artwork.
func (c *ITunes) Resolve(ctx context.Context, md metadata.Metadata) (*url.URL, error) {
	term := md.Raw
	if term == "" {
		term = strings.TrimSpace(md.Artist + " " + md.Track)
	}
	if term == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("entity", "song")

	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create itunes request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("itunes search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("itunes search returned %d: %s", resp.StatusCode, body)
	}

	var sr itunesResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode itunes response: %w", err)
	}
	if len(sr.Results) == 0 {
		return nil, nil
	}

	return parseURL(ResizeITunesArtwork(sr.Results[0].ArtworkURL100, c.size))
}

// ResizeITunesArtwork rewrites the 100x100 size token of an iTunes artwork
// URL to size x size.
func ResizeITunesArtwork(raw string, size int) string {
	if size == 100 || size < 1 {
		return raw
	}
	s := strconv.Itoa(size)
	return strings.ReplaceAll(raw, "100x100", s+"x"+s)
}

type itunesResponse struct {
	ResultCount int          `json:"resultCount"`
	Results     []itunesItem `json:"results"`
}

type itunesItem struct {
	TrackName     string `json:"trackName"`
	ArtistName    string `json:"artistName"`
	ArtworkURL100 string `json:"artworkUrl100"`
}
