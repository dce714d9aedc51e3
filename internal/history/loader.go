package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ExportFileName names the export file of r, e.g.
// "ann-vs-bob-20250102-1504-1b4e28ba.json".
func ExportFileName(r Record) string {
	id := r.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s-%s-%s.json", slug.Make(r.PlayersText()), r.PlayedAt.Format("20060102-1504"), id)
}

// ExportRecord writes r as indented JSON into dir and returns the file path.
func ExportRecord(dir string, r Record) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export dir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode game %s: %w", r.ID, err)
	}
	path := filepath.Join(dir, ExportFileName(r))
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// LoadRecords loads exported games from a list of paths (files or
// directories). Directories contribute their *.json files.
func LoadRecords(paths []string) ([]Record, error) {
	var records []Record

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if !info.IsDir() {
			r, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			records = append(records, r)
			continue
		}

		files, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
		}
		for _, entry := range files {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				continue
			}
			r, err := loadFile(filepath.Join(path, entry.Name()))
			if err != nil {
				return nil, err
			}
			records = append(records, r)
		}
	}

	return records, nil
}

func loadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("failed to decode game in %s: %w", path, err)
	}
	// Hand-written files may leave the id out.
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := r.Validate(); err != nil {
		return Record{}, fmt.Errorf("invalid game in %s: %w", path, err)
	}
	return r, nil
}
