package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/llehouerou/airwaves/internal/metadata"
)

// Deezer looks album covers up through the Deezer search API.
type Deezer struct {
	httpClient *http.Client
	apiURL     string
	size       int
	userAgent  string
}

// NewDeezer creates a Deezer resolver. Size picks the closest cover
// variant the API offers (56, 250, 500 or 1000 pixels).
func NewDeezer(size int, userAgent string) *Deezer {
	return &Deezer{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     "https://api.deezer.com",
		size:       size,
		userAgent:  userAgent,
	}
}

// Resolve implements Resolver.
func (c *Deezer) Resolve(ctx context.Context, md metadata.Metadata) (*url.URL, error) {
	q := deezerQuery(md)
	if q == "" {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/search?q=%s&limit=1", c.apiURL, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create deezer request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deezer search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("deezer search returned %d: %s", resp.StatusCode, body)
	}

	var sr deezerResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode deezer response: %w", err)
	}
	if sr.Error != nil {
		return nil, fmt.Errorf("deezer API error: %s", sr.Error.Message)
	}
	if len(sr.Data) == 0 {
		return nil, nil
	}

	return parseURL(sr.Data[0].Album.cover(c.size))
}

func deezerQuery(md metadata.Metadata) string {
	var parts []string
	if md.Artist != "" {
		parts = append(parts, "artist:\""+stripQuotes(md.Artist)+"\"")
	}
	if md.Track != "" && md.Track != md.Artist {
		parts = append(parts, "track:\""+stripQuotes(md.Track)+"\"")
	}
	return strings.Join(parts, " ")
}

type deezerResponse struct {
	Data  []deezerTrack `json:"data"`
	Error *deezerError  `json:"error,omitempty"`
}

type deezerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type deezerTrack struct {
	ID    int         `json:"id"`
	Title string      `json:"title"`
	Album deezerAlbum `json:"album"`
}

type deezerAlbum struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	CoverSmall  string `json:"cover_small"`
	CoverMedium string `json:"cover_medium"`
	CoverBig    string `json:"cover_big"`
	CoverXL     string `json:"cover_xl"`
}

// cover returns the smallest variant at least size pixels wide, falling back
// to the largest one available.
func (a deezerAlbum) cover(size int) string {
	variants := []struct {
		edge int
		url  string
	}{
		{56, a.CoverSmall},
		{250, a.CoverMedium},
		{500, a.CoverBig},
		{1000, a.CoverXL},
	}
	var fallback string
	for _, v := range variants {
		if v.url == "" {
			continue
		}
		if v.edge >= size {
			return v.url
		}
		fallback = v.url
	}
	return fallback
}
