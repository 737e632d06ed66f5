package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"study-assistant/internal/models"
)

const (
	filePrefix = "session_"
	fileExt    = ".json"
	maxSuffix  = 1000
)

// Record is a saved snapshot and where it was written.
type Record struct {
	Name    string              `json:"name"`
	URL     string              `json:"url"`
	Session models.StudySession `json:"session"`
}

// Store writes write-once study session snapshots under a base location, which may be a local
// path or any URL scheme afs supports.
type Store struct {
	fs      afs.Service
	baseURL string
	now     func() time.Time
}

func NewStore(baseURL string) *Store {
	return &Store{fs: afs.New(), baseURL: baseURL, now: time.Now}
}

func (s *Store) Location() string { return s.baseURL }

// Save writes one new record named after the current time. An existing record is never
// replaced: a second save within the same second gets a numeric suffix.
func (s *Store) Save(ctx context.Context, notes string, flashcards []string, summary string) (*Record, error) {
	if err := s.ensureLocation(ctx); err != nil {
		return nil, err
	}

	ts := s.now().Format(models.SessionTimeFmt)
	session := models.StudySession{
		Timestamp:  ts,
		Notes:      notes,
		Flashcards: flashcards,
		Summary:    summary,
	}
	if session.Flashcards == nil {
		session.Flashcards = []string{}
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return nil, &models.PersistenceError{Op: "encode", Path: s.baseURL, Err: err}
	}

	name, target, err := s.freeName(ctx, ts)
	if err != nil {
		return nil, err
	}
	if err := s.fs.Upload(ctx, target, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return nil, &models.PersistenceError{Op: "write", Path: target, Err: err}
	}

	log.Info().Str("url", target).Int("flashcards", len(flashcards)).Msg("Saved study session")
	return &Record{Name: name, URL: target, Session: session}, nil
}

func (s *Store) ensureLocation(ctx context.Context) error {
	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil {
		return &models.PersistenceError{Op: "stat", Path: s.baseURL, Err: err}
	}
	if exists {
		return nil
	}
	if err := s.fs.Create(ctx, s.baseURL, file.DefaultDirOsMode, true); err != nil {
		return &models.PersistenceError{Op: "create", Path: s.baseURL, Err: err}
	}
	return nil
}

func (s *Store) freeName(ctx context.Context, ts string) (string, string, error) {
	for n := 1; n <= maxSuffix; n++ {
		name := filePrefix + ts + fileExt
		if n > 1 {
			name = fmt.Sprintf("%s%s_%d%s", filePrefix, ts, n, fileExt)
		}
		target := url.Join(s.baseURL, name)
		exists, err := s.fs.Exists(ctx, target)
		if err != nil {
			return "", "", &models.PersistenceError{Op: "stat", Path: target, Err: err}
		}
		if !exists {
			return name, target, nil
		}
	}
	return "", "", &models.PersistenceError{Op: "write", Path: s.baseURL, Err: fmt.Errorf("no free name for %s", ts)}
}

// Load reads the record called name.
func (s *Store) Load(ctx context.Context, name string) (*Record, error) {
	target := url.Join(s.baseURL, name)
	data, err := s.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return nil, &models.PersistenceError{Op: "read", Path: target, Err: err}
	}
	var session models.StudySession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, &models.PersistenceError{Op: "decode", Path: target, Err: err}
	}
	return &Record{Name: name, URL: target, Session: session}, nil
}

// List returns the names of saved records, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	exists, err := s.fs.Exists(ctx, s.baseURL)
	if err != nil {
		return nil, &models.PersistenceError{Op: "stat", Path: s.baseURL, Err: err}
	}
	if !exists {
		return nil, nil
	}
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list", Path: s.baseURL, Err: err}
	}

	var names []string
	for _, o := range objects {
		if o.IsDir() || !strings.HasPrefix(o.Name(), filePrefix) || !strings.HasSuffix(o.Name(), fileExt) {
			continue
		}
		names = append(names, o.Name())
	}
	sort.Strings(names)
	return names, nil
}
