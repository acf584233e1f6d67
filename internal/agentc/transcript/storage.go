package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// AmbiguousIDError is returned when multiple transcripts match a prefix
type AmbiguousIDError struct {
	Prefix  string
	Matches []Transcript
}

func (e *AmbiguousIDError) Error() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Ambiguous transcript ID %q. Multiple matches found:", e.Prefix))
	for _, match := range e.Matches {
		lines = append(lines, fmt.Sprintf("- %s (%s, %s, %d inputs)",
			match.GetShortID(),
			match.AgentID,
			match.CreatedAt.Format("2006-01-02"),
			match.InputCount()))
	}
	lines = append(lines, "")
	lines = append(lines, "Please use a longer prefix or run 'agentc transcripts list'.")
	return strings.Join(lines, "\n")
}

// Store keeps transcripts as <Dir>/<id>.json
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DirFor returns the transcript directory for a config directory
func DirFor(configDir string) string {
	return filepath.Join(configDir, "transcripts")
}

func (s *Store) path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

// Save writes a transcript to disk
func (s *Store) Save(t *Transcript) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize transcript: %w", err)
	}

	if err := os.WriteFile(s.path(t.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write transcript file: %w", err)
	}
	return nil
}

// Load reads a transcript by full ID
func (s *Store) Load(id string) (*Transcript, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("transcript not found: %s\n\nRun 'agentc transcripts list' to see available transcripts.", id)
		}
		return nil, fmt.Errorf("failed to read transcript file: %w", err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse transcript file: %w\n\nThe transcript file may be corrupted.", err)
	}
	return &t, nil
}

// Delete removes a transcript by full ID
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("transcript not found: %s", id)
		}
		return fmt.Errorf("failed to delete transcript file: %w", err)
	}
	return nil
}

// List returns all transcripts sorted by CreatedAt (newest first).
// Unreadable files are skipped.
func (s *Store) List() ([]Transcript, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read transcript directory: %w", err)
	}

	var transcripts []Transcript
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		t, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		transcripts = append(transcripts, *t)
	}

	sort.Slice(transcripts, func(i, j int) bool {
		return transcripts[i].CreatedAt.After(transcripts[j].CreatedAt)
	})
	return transcripts, nil
}

// FindByPrefix finds a transcript by ID prefix (minimum 4 characters).
// "latest" returns the most recent transcript.
func (s *Store) FindByPrefix(prefix string) (*Transcript, error) {
	if prefix == "latest" {
		return s.Latest()
	}

	if len(prefix) < 4 {
		return nil, fmt.Errorf("transcript ID prefix must be at least 4 characters (got %d)", len(prefix))
	}

	// Full UUID
	if len(prefix) == 36 && strings.Count(prefix, "-") == 4 {
		return s.Load(prefix)
	}

	transcripts, err := s.List()
	if err != nil {
		return nil, err
	}

	var matches []Transcript
	for _, t := range transcripts {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("transcript not found: %s\n\nRun 'agentc transcripts list' to see available transcripts.", prefix)
	case 1:
		return &matches[0], nil
	default:
		return nil, &AmbiguousIDError{Prefix: prefix, Matches: matches}
	}
}

// Latest returns the most recently created transcript
func (s *Store) Latest() (*Transcript, error) {
	transcripts, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(transcripts) == 0 {
		return nil, fmt.Errorf("no transcripts found\n\nSave one with: agentc start --save \"your message\"")
	}
	return &transcripts[0], nil
}

// Before returns the transcripts created before t
func (s *Store) Before(t time.Time) ([]Transcript, error) {
	transcripts, err := s.List()
	if err != nil {
		return nil, err
	}
	var older []Transcript
	for _, tr := range transcripts {
		if tr.CreatedAt.Before(t) {
			older = append(older, tr)
		}
	}
	return older, nil
}

// Prune deletes transcripts older than retentionDays and returns how many
// were removed
func (s *Store) Prune(retentionDays int, now time.Time) (int, error) {
	older, err := s.Before(now.AddDate(0, 0, -retentionDays))
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, t := range older {
		if err := s.Delete(t.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
