package playback

import "testing"

func TestPlayerState_String(t *testing.T) {
	tests := []struct {
		state PlayerState
		want  string
	}{
		{StateURLNotSet, "URLNotSet"},
		{StateLoading, "Loading"},
		{StateReadyToPlay, "ReadyToPlay"},
		{StateLoadingFinished, "LoadingFinished"},
		{StateError, "Error"},
		{PlayerState(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestPlaybackState_String(t *testing.T) {
	tests := []struct {
		state PlaybackState
		want  string
	}{
		{Stopped, "Stopped"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{PlaybackState(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestPlaybackState_IsActive(t *testing.T) {
	tests := []struct {
		state PlaybackState
		want  bool
	}{
		{Stopped, false},
		{Playing, true},
		{Paused, true},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
