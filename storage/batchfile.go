package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"geojobs-scraper/models"
	"geojobs-scraper/utils"
)

// BatchWriter appends raw jobs to a dated batch file as they are scraped,
// one JSON object followed by a newline per record. Each record is flushed
// immediately so a crash mid-crawl preserves everything written so far.
type BatchWriter struct {
	file *os.File
	path string
}

// NewBatchWriter creates the dated batch file under dir, creating the
// directory if needed.
func NewBatchWriter(dir string) (*BatchWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("batchfile: create output dir: %w", err)
	}

	path := filepath.Join(dir, time.Now().Format("2006-01-02")+"-Job-listings.txt")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("batchfile: create %q: %w", path, err)
	}

	return &BatchWriter{file: f, path: path}, nil
}

// Path returns the location of the batch file.
func (w *BatchWriter) Path() string {
	return w.path
}

// Append writes one raw job to the batch file and syncs it to disk.
func (w *BatchWriter) Append(job models.RawJob) error {
	data, err := json.MarshalIndent(job, "", "    ")
	if err != nil {
		return fmt.Errorf("batchfile: marshal job %q: %w", job.Title, err)
	}

	if _, err := w.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("batchfile: write job %q: %w", job.Title, err)
	}
	return w.file.Sync()
}

// Close closes the underlying file.
func (w *BatchWriter) Close() error {
	return w.file.Close()
}

// ConvertToJSONArray reads a batch file of newline-concatenated JSON
// objects, repairs the object boundaries, and writes a proper JSON array
// next to it as <base>_json-list_<timestamp>.txt. Chunks that fail to
// decode are logged and skipped rather than failing the conversion.
func ConvertToJSONArray(path string, logger *utils.Logger) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("batchfile: read %q: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(filepath.Dir(path),
		fmt.Sprintf("%s_json-list_%s.txt", base, time.Now().Format("20060102150405")))

	chunks := strings.Split(strings.TrimSpace(string(content)), "}\n{")

	var jobs []models.RawJob
	for i, chunk := range chunks {
		if !strings.HasPrefix(chunk, "{") {
			chunk = "{" + chunk
		}
		if !strings.HasSuffix(chunk, "}") {
			chunk += "}"
		}

		var job models.RawJob
		if err := json.Unmarshal([]byte(chunk), &job); err != nil {
			logger.Error("[batchfile] Skipping undecodable record at index %d: %v", i, err)
			continue
		}
		jobs = append(jobs, job)
	}

	if err := writeJobArray(outPath, jobs); err != nil {
		return "", err
	}
	return outPath, nil
}

// ReadJobArray loads a JSON-array file of raw jobs.
func ReadJobArray(path string) ([]models.RawJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batchfile: read array %q: %w", path, err)
	}

	var jobs []models.RawJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("batchfile: parse array %q: %w", path, err)
	}
	return jobs, nil
}

// AppendToArchive loads the JSON array at sourcePath and appends its
// records to the legacy archive at targetPath, creating the archive as an
// empty array first if it does not exist.
func AppendToArchive(sourcePath, targetPath string) error {
	source, err := ReadJobArray(sourcePath)
	if err != nil {
		return err
	}

	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		if err := os.WriteFile(targetPath, []byte("[]"), 0644); err != nil {
			return fmt.Errorf("batchfile: create archive %q: %w", targetPath, err)
		}
	}

	target, err := ReadJobArray(targetPath)
	if err != nil {
		return err
	}

	return writeJobArray(targetPath, append(target, source...))
}

func writeJobArray(path string, jobs []models.RawJob) error {
	if jobs == nil {
		jobs = []models.RawJob{}
	}
	data, err := json.MarshalIndent(jobs, "", "    ")
	if err != nil {
		return fmt.Errorf("batchfile: marshal array: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batchfile: write array %q: %w", path, err)
	}
	return nil
}
