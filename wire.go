package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/airwaves/internal/artwork"
	"github.com/llehouerou/airwaves/internal/config"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/network"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/state"
	"github.com/llehouerou/airwaves/internal/ui/nowplaying"
)

var errNoSource = errors.New("no stream URL given and none played before")

// lastSourcer is the part of the state store pickSource needs.
type lastSourcer interface {
	GetLastSource() (*playback.Source, error)
}

// pickSource returns the source to play: rawURL with the configured and
// flag headers merged (flags win), or the last played source.
func pickSource(rawURL string, cfgHeaders map[string]string, flagHeaders []string, st lastSourcer) (*playback.Source, error) {
	if rawURL == "" {
		last, err := st.GetLastSource()
		if err != nil {
			return nil, errors.New(errmsg.Format(errmsg.OpLoadState, err))
		}
		if last == nil {
			return nil, errNoSource
		}
		return last, nil
	}

	headers := maps.Clone(cfgHeaders)
	parsed, err := parseHeaders(flagHeaders)
	if err != nil {
		return nil, err
	}
	if headers == nil {
		headers = parsed
	} else {
		maps.Copy(headers, parsed)
	}

	src := playback.NewSource(rawURL, headers)
	if err := src.Validate(); err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpLoadStream, err))
	}
	return src, nil
}

// parseHeaders parses "Key=Value" or "Key: Value" pairs.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, ok := strings.Cut(h, "=")
		if !ok {
			key, value, ok = strings.Cut(h, ":")
		}
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q: want Key=Value", h)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

// pickVolume prefers the flag, then the config file, then the saved level.
func pickVolume(flag, configured *float64, saved float64) float64 {
	v := saved
	switch {
	case flag != nil:
		v = *flag
	case configured != nil:
		v = *configured
	}
	return max(0, min(v, 1))
}

// buildResolver chains the configured providers in order behind the
// artwork cache. No usable provider yields artwork.Null.
func buildResolver(cfg config.ArtworkConfig, userAgent string, store artwork.Store, logger *log.Logger) artwork.Resolver {
	var named []artwork.Named
	for _, name := range cfg.Providers {
		var r artwork.Resolver
		switch name {
		case "itunes":
			r = artwork.NewITunes(cfg.Size, userAgent)
		case "deezer":
			r = artwork.NewDeezer(cfg.Size, userAgent)
		case "musicbrainz":
			r = artwork.NewMusicBrainz(cfg.Size, userAgent)
		case "lastfm":
			if cfg.LastfmKey == "" || cfg.LastfmSecret == "" {
				logger.Debug("lastfm provider skipped: no api key")
				continue
			}
			r = artwork.NewLastFM(cfg.LastfmKey, cfg.LastfmSecret, cfg.Size)
		default:
			logger.Warn("unknown artwork provider", "name", name)
			continue
		}
		named = append(named, artwork.Named{Name: name, Resolver: r})
	}
	if len(named) == 0 {
		return artwork.Null{}
	}
	return artwork.NewCached(artwork.NewChain(logger, named...), store)
}

// buildReachability starts the connectivity source for cfg.Reachability.
// "auto" uses NetworkManager when the system bus has it and probes
// otherwise.
func buildReachability(ctx context.Context, cfg config.NetworkConfig, logger *log.Logger) network.Reachability {
	switch cfg.Reachability {
	case "none":
		return network.NewManual(true)
	case "probe":
	default:
		nm, err := network.NewNetworkManager()
		if err == nil {
			nm.Start(ctx)
			return nm
		}
		if cfg.Reachability == "networkmanager" {
			logger.Warn("networkmanager unavailable, probing instead", "err", err)
		} else {
			logger.Debug("networkmanager unavailable", "err", err)
		}
	}
	p := network.NewProber(cfg.ProbeAddr, cfg.ProbeInterval())
	p.Start(ctx)
	return p
}

func recentFromHistory(entries []state.HistoryEntry) []nowplaying.Recent {
	recent := make([]nowplaying.Recent, 0, len(entries))
	for _, e := range entries {
		if e.Metadata.IsEmpty() {
			continue
		}
		recent = append(recent, nowplaying.Recent{Metadata: e.Metadata, At: e.PlayedAt})
	}
	return recent
}
