package artwork

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/llehouerou/airwaves/internal/metadata"
)

func newITunesServer(t *testing.T, results []itunesItem) (*httptest.Server, <-chan string) {
	t.Helper()
	terms := make(chan string, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		terms <- r.URL.Query().Get("term")
		if e := r.URL.Query().Get("entity"); e != "song" {
			t.Errorf("entity = %q, want song", e)
		}
		if ua := r.Header.Get("User-Agent"); ua != "airwaves-test" {
			t.Errorf("User-Agent = %q", ua)
		}
		_ = json.NewEncoder(w).Encode(itunesResponse{ResultCount: len(results), Results: results})
	}))
	t.Cleanup(srv.Close)
	return srv, terms
}

func TestITunes_Resolve(t *testing.T) {
	srv, terms := newITunesServer(t, []itunesItem{
		{ArtworkURL100: "https://is1.example.com/image/100x100bb.jpg"},
		{ArtworkURL100: "https://is1.example.com/other/100x100bb.jpg"},
	})

	c := NewITunes(300, "airwaves-test")
	c.apiURL = srv.URL

	u, err := c.Resolve(context.Background(), metadata.Extract("Daft Punk - One More Time [live]"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if u == nil {
		t.Fatal("Resolve() = nil, want url")
	}
	if got, want := u.String(), "https://is1.example.com/image/300x300bb.jpg"; got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
	if got := <-terms; got != "Daft Punk - One More Time" {
		t.Errorf("term = %q", got)
	}
}

func TestITunes_Resolve_NoResults(t *testing.T) {
	srv, _ := newITunesServer(t, nil)
	c := NewITunes(300, "airwaves-test")
	c.apiURL = srv.URL

	u, err := c.Resolve(context.Background(), metadata.Extract("Nobody - Nothing"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if u != nil {
		t.Errorf("Resolve() = %v, want nil", u)
	}
}

func TestITunes_Resolve_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewITunes(300, "")
	c.apiURL = srv.URL

	if _, err := c.Resolve(context.Background(), metadata.Extract("A - B")); err == nil {
		t.Error("Resolve() error = nil, want error")
	}
}

func TestITunes_Resolve_EmptyMetadata(t *testing.T) {
	c := NewITunes(300, "")
	c.apiURL = "http://127.0.0.1:1"

	u, err := c.Resolve(context.Background(), metadata.Metadata{})
	if err != nil || u != nil {
		t.Errorf("Resolve(empty) = %v, %v; want nil, nil", u, err)
	}
}

func TestResizeITunesArtwork(t *testing.T) {
	const raw = "https://x/100x100bb.jpg"
	tests := []struct {
		size int
		want string
	}{
		{300, "https://x/300x300bb.jpg"},
		{600, "https://x/600x600bb.jpg"},
		{100, raw},
		{0, raw},
		{-5, raw},
	}
	for _, tt := range tests {
		if got := ResizeITunesArtwork(raw, tt.size); got != tt.want {
			t.Errorf("ResizeITunesArtwork(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
