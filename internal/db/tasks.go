package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tgienger/smarttask/internal/models"
)

// ErrMalformedStorage marks a task file that exists but cannot be decoded
var ErrMalformedStorage = errors.New("malformed task storage")

// SaveTasks writes the whole collection to path as a JSON array.
// The file is replaced atomically: a failed write leaves the previous content intact.
func SaveTasks(tasks []models.Task, path string) error {
	records := make([]models.Record, 0, len(tasks))
	for i := range tasks {
		records = append(records, tasks[i].ToRecord())
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}

	log.Debug("tasks saved", "count", len(tasks), "path", path)
	return nil
}

// LoadTasks reads the collection stored at path.
// A missing file yields an empty collection and no error. A file that cannot be
// decoded yields an empty collection and an error wrapping ErrMalformedStorage.
func LoadTasks(path string) ([]models.Task, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("task file not found, starting with an empty list", "path", path)
		return []models.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	tasks, err := decodeTasks(data)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrMalformedStorage, path, err)
		log.Error("could not decode task file, starting with an empty list", "path", path, "err", err)
		return []models.Task{}, err
	}

	log.Debug("tasks loaded", "count", len(tasks), "path", path)
	return tasks, nil
}

func decodeTasks(data []byte) ([]models.Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	tasks := make([]models.Task, 0, len(records))
	for i, r := range records {
		t, err := models.FromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

// BackupMalformed copies path next to itself as <path>.corrupt-<timestamp>
// and returns the backup location
func BackupMalformed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102T150405.000000000Z"))
	if err := writeFileAtomic(backup, data); err != nil {
		return "", err
	}
	log.Warn("backed up malformed task file", "path", path, "backup", backup)
	return backup, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
