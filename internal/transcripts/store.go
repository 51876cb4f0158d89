// Package transcripts persists transcript segments per source
// identity so later re-renders can skip transcription.
package transcripts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipforge/clipforge/internal/types"
)

// ErrNotFound reports a missing transcript for a source identity.
var ErrNotFound = errors.New("transcript not found")

// Store keeps one JSON file per source identity under dir.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the segment list atomically (temp file + rename), so a
// concurrent reader never observes a torn file.
func (s *Store) Save(identity string, segments []types.Segment) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, identity+"_transcript_*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.Path(identity)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Load reads the segment list for a source identity.
func (s *Store) Load(identity string) ([]types.Segment, error) {
	b, err := os.ReadFile(s.Path(identity))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var segments []types.Segment
	if err := json.Unmarshal(b, &segments); err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	return segments, nil
}

// Path returns the on-disk location for a source identity.
func (s *Store) Path(identity string) string {
	return filepath.Join(s.dir, identity+"_transcript.json")
}
