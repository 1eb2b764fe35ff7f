package server

import (
	"encoding/json"
	"net/http"

	"github.com/llehouerou/airwaves/internal/playback"
)

// NowPlaying is the JSON form of an engine snapshot.
type NowPlaying struct {
	PlayerState   string  `json:"player_state"`
	PlaybackState string  `json:"playback_state"`
	URL           string  `json:"url,omitempty"`
	SessionID     string  `json:"session_id,omitempty"`
	Artist        string  `json:"artist,omitempty"`
	Track         string  `json:"track,omitempty"`
	Title         string  `json:"title,omitempty"`
	ArtworkURL    string  `json:"artwork_url,omitempty"`
	DurationMS    int64   `json:"duration_ms"`
	PositionMS    int64   `json:"position_ms"`
	Volume        float64 `json:"volume"`
	Connected     bool    `json:"connected"`
}

// ErrorResponse describes the last engine error.
type ErrorResponse struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

func toNowPlaying(s playback.Snapshot) NowPlaying {
	np := NowPlaying{
		PlayerState:   s.PlayerState.String(),
		PlaybackState: s.PlaybackState.String(),
		SessionID:     s.SessionID,
		DurationMS:    s.Duration.Milliseconds(),
		PositionMS:    s.CurrentTime.Milliseconds(),
		Volume:        s.Volume,
		Connected:     s.Connected,
	}
	if s.Source != nil {
		np.URL = s.Source.URL
	}
	if s.Metadata != nil {
		np.Artist = s.Metadata.Artist
		np.Track = s.Metadata.Track
		np.Title = s.Metadata.String()
	}
	if s.Artwork != nil && s.Artwork.URL != nil {
		np.ArtworkURL = s.Artwork.URL.String()
	}
	return np
}

func (s *Server) handleNowPlaying(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, toNowPlaying(s.engine.Snapshot()))
}

func (s *Server) handleControl(fn func()) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		fn()
		w.WriteHeader(http.StatusAccepted)
	}
}

type volumeRequest struct {
	Volume *float64 `json:"volume"`
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.Volume == nil || *req.Volume < 0 || *req.Volume > 1 {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "expected {\"volume\": 0.0-1.0}"})
		return
	}
	s.engine.SetVolume(*req.Volume)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}
