package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"adpipe/internal/config"
)

// ErrNotFound marks a video file that does not exist in the output dir
var ErrNotFound = errors.New("video not found")

// Store owns the finished-video output directory: listing, deletion and
// usage statistics. Rendering writes into this directory; everything after
// that is the store's business.
type Store struct {
	outputDir string
	tempDir   string
}

func New(cfg *config.Config) *Store {
	return &Store{outputDir: cfg.Paths.Output, tempDir: cfg.Paths.Temp}
}

func (s *Store) OutputDir() string { return s.outputDir }

// VideoFile describes one finished video on disk
type VideoFile struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ValidateName rejects anything that is not a bare .mp4 filename
func ValidateName(name string) error {
	if !strings.HasSuffix(name, ".mp4") ||
		strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid filename %q", name)
	}
	return nil
}

// List returns all finished videos, newest first
func (s *Store) List() ([]VideoFile, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, err
	}

	videos := make([]VideoFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".mp4") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		videos = append(videos, VideoFile{
			Filename:   entry.Name(),
			URL:        "/videos/" + entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(videos, func(i, j int) bool {
		return videos[i].ModifiedAt.After(videos[j].ModifiedAt)
	})
	return videos, nil
}

// Stat returns one video's file details
func (s *Store) Stat(name string) (VideoFile, error) {
	if err := ValidateName(name); err != nil {
		return VideoFile{}, err
	}
	info, err := os.Stat(filepath.Join(s.outputDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return VideoFile{}, ErrNotFound
		}
		return VideoFile{}, err
	}
	return VideoFile{
		Filename:   name,
		URL:        "/videos/" + name,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// Path resolves a validated filename inside the output dir
func (s *Store) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.outputDir, name), nil
}

// Delete removes one finished video
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteResult reports one filename's outcome in a batch delete
type DeleteResult struct {
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// DeleteBatch removes many videos, continuing past individual failures
func (s *Store) DeleteBatch(names []string) []DeleteResult {
	results := make([]DeleteResult, 0, len(names))
	for _, name := range names {
		res := DeleteResult{Filename: name, Success: true}
		if err := s.Delete(name); err != nil {
			res.Success = false
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

// Stats summarizes output and temp directory usage
type Stats struct {
	VideoCount  int   `json:"count"`
	TotalSize   int64 `json:"totalSize"`
	AverageSize int64 `json:"averageSize"`
	TempSize    int64 `json:"tempSize"`
}

func (s *Store) Stats() (Stats, error) {
	videos, err := s.List()
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	st.VideoCount = len(videos)
	for _, v := range videos {
		st.TotalSize += v.Size
	}
	if st.VideoCount > 0 {
		st.AverageSize = st.TotalSize / int64(st.VideoCount)
	}

	// Temp size is best effort: scratch dirs come and go while we walk
	_ = filepath.WalkDir(s.tempDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			st.TempSize += info.Size()
		}
		return nil
	})

	return st, nil
}
