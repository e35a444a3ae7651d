package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wparames/honeymart/pkg/logger"
	"go.uber.org/zap"
)

// CycleStatus is the terminal outcome of one refresh cycle.
type CycleStatus string

const (
	CycleOK     CycleStatus = "ok"
	CycleFailed CycleStatus = "failed"
)

// CycleEntry records the outcome of one refresh cycle.
type CycleEntry struct {
	StartedAt time.Time   `json:"started_at"`
	Duration  string      `json:"duration"`
	Status    CycleStatus `json:"status"`
	Users     int         `json:"users"`
	Products  int         `json:"products"`
	Orders    int         `json:"orders"`
	Error     string      `json:"error,omitempty"`
}

// Journal is an append-only JSONL log of refresh cycle outcomes.
type Journal struct {
	filePath string
	file     *os.File
	mu       sync.Mutex
}

// New opens (or creates) the journal file.
func New(filePath string) (*Journal, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Journal{
		filePath: filePath,
		file:     file,
	}, nil
}

// Append writes one cycle entry and syncs it to disk.
func (j *Journal) Append(entry CycleEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Log.Error("Journal: failed to marshal entry", zap.Error(err))
		return err
	}

	if _, err := j.file.WriteString(string(data) + "\n"); err != nil {
		logger.Log.Error("Journal: failed to write entry", zap.Error(err))
		return err
	}

	if err := j.file.Sync(); err != nil {
		logger.Log.Error("Journal: failed to sync to disk", zap.Error(err))
		return err
	}

	return nil
}

// Recent returns the newest n entries, newest first.
func (j *Journal) Recent(n int) ([]CycleEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.readAllUnsafe()
	if err != nil {
		return nil, err
	}

	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	// newest first
	for i, k := 0, len(entries)-1; i < k; i, k = i+1, k-1 {
		entries[i], entries[k] = entries[k], entries[i]
	}
	return entries, nil
}

// Trim rewrites the journal keeping only the newest keep entries.
func (j *Journal) Trim(keep int) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.readAllUnsafe()
	if err != nil {
		return err
	}
	if len(entries) <= keep {
		return nil
	}
	remaining := entries[len(entries)-keep:]

	// Build the replacement fully before touching the live file, so a failed
	// trim leaves the journal open and appendable.
	tempFile := j.filePath + ".tmp"
	if err := writeEntries(tempFile, remaining); err != nil {
		os.Remove(tempFile)
		return err
	}

	if err := j.file.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	// Replace old file with new one (atomic)
	renameErr := os.Rename(tempFile, j.filePath)
	if renameErr != nil {
		os.Remove(tempFile)
	}

	// Reopen even after a failed rename: later Appends must not hit a closed
	// handle.
	newFile, err := os.OpenFile(j.filePath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	j.file = newFile

	if renameErr != nil {
		return renameErr
	}

	logger.Log.Debug("Journal: trimmed",
		zap.Int("before", len(entries)),
		zap.Int("after", len(remaining)),
	)
	return nil
}

// writeEntries writes entries to path as JSONL, synced to disk.
func writeEntries(path string, entries []CycleEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			f.Close()
			return err
		}
		if _, err := f.WriteString(string(data) + "\n"); err != nil {
			f.Close()
			return err
		}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readAllUnsafe reads all entries without locking (internal use only)
func (j *Journal) readAllUnsafe() ([]CycleEntry, error) {
	file, err := os.Open(j.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []CycleEntry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []CycleEntry
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		var entry CycleEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// Close closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}
