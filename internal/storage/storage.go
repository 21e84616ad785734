// Persistent state for the decision engine: session snapshots and
// relationship profiles survive restarts so an interrupted scene can
// resume. Backed by keshon/datastore (JSON file, periodic flush, final
// save on close).
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keshon/datastore"
	"github.com/rs/zerolog"

	"github.com/nereth/stagemind/internal/mind"
)

const (
	sessionKeyPrefix  = "session:"
	profilesKeyPrefix = "profiles:"
)

// Storage wraps the datastore with typed accessors. The Persister methods
// swallow store errors after logging them: persistence is best-effort and
// must never take the decision pipeline down.
type Storage struct {
	ds  *datastore.DataStore
	log zerolog.Logger
}

// New opens (or creates) the datastore file at filePath. ctx controls the
// store's background flush goroutine; cancel it before calling Close, or
// Close blocks waiting for that goroutine.
func New(ctx context.Context, filePath string, log zerolog.Logger) (*Storage, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("open datastore: %w", err)
	}
	return &Storage{ds: ds, log: log.With().Str("component", "storage").Logger()}, nil
}

// Close performs the final flush to disk.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// SaveSession persists a session snapshot for its channel.
func (s *Storage) SaveSession(snap mind.SessionSnapshot) {
	if err := s.ds.Set(sessionKeyPrefix+snap.ChannelID, snap); err != nil {
		s.log.Error().Err(err).Str("channel", snap.ChannelID).Msg("save session failed")
	}
}

// LoadSession returns the stored snapshot for a channel, if any.
func (s *Storage) LoadSession(channelID string) (mind.SessionSnapshot, bool) {
	var snap mind.SessionSnapshot
	found, err := s.ds.Get(sessionKeyPrefix+channelID, &snap)
	if err != nil {
		s.log.Error().Err(err).Str("channel", channelID).Msg("load session failed")
		return mind.SessionSnapshot{}, false
	}
	return snap, found
}

// DeleteSession removes a channel's stored snapshot (scene ended).
func (s *Storage) DeleteSession(channelID string) {
	if err := s.ds.Delete(sessionKeyPrefix + channelID); err != nil {
		s.log.Error().Err(err).Str("channel", channelID).Msg("delete session failed")
	}
}

// SaveProfiles persists the relationship profiles of a channel.
func (s *Storage) SaveProfiles(channelID string, profiles map[string]mind.Profile) {
	if err := s.ds.Set(profilesKeyPrefix+channelID, profiles); err != nil {
		s.log.Error().Err(err).Str("channel", channelID).Msg("save profiles failed")
	}
}

// LoadProfiles returns the stored profiles for a channel, if any.
func (s *Storage) LoadProfiles(channelID string) (map[string]mind.Profile, bool) {
	var profiles map[string]mind.Profile
	found, err := s.ds.Get(profilesKeyPrefix+channelID, &profiles)
	if err != nil {
		s.log.Error().Err(err).Str("channel", channelID).Msg("load profiles failed")
		return nil, false
	}
	return profiles, found && profiles != nil
}
