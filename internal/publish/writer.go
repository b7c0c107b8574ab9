package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/aegis-quant/internal/contracts"
	"github.com/wonny/aegis-quant/pkg/config"
	"github.com/wonny/aegis-quant/pkg/logger"
)

// Live artifact names
const (
	PicksFile    = "latest_picks.json"
	BacktestFile = "backtest_results.json"
	StressFile   = "stress_audit.json"
)

// maxArchiveAttempts bounds the numbered-suffix search for a free archive name
const maxArchiveAttempts = 100

// FileWriter publishes run artifacts as JSON files
// ⭐ SSOT: 라이브 파일은 덮어쓰기, 아카이브는 절대 덮어쓰지 않음
type FileWriter struct {
	dir        string
	archiveDir string
	logger     *logger.Logger
}

var _ contracts.Publisher = (*FileWriter)(nil)

// NewFileWriter creates a writer rooted at the configured output directories
func NewFileWriter(cfg config.OutputConfig, log *logger.Logger) *FileWriter {
	if log == nil {
		log = logger.Nop()
	}
	archiveDir := cfg.ArchiveDir
	if archiveDir == "" {
		archiveDir = filepath.Join(cfg.Dir, "archive")
	}
	return &FileWriter{dir: cfg.Dir, archiveDir: archiveDir, logger: log}
}

// PublishPicks writes the daily picks to the live file and a date-keyed archive
func (w *FileWriter) PublishPicks(ctx context.Context, artifact *contracts.PicksArtifact) error {
	if artifact == nil {
		return errors.New("publish picks: nil artifact")
	}
	return w.publish(ctx, PicksFile, "picks", artifact.LastUpdated, artifact)
}

// PublishBacktest writes backtest results
func (w *FileWriter) PublishBacktest(ctx context.Context, artifact *contracts.BacktestArtifact) error {
	if artifact == nil {
		return errors.New("publish backtest: nil artifact")
	}
	return w.publish(ctx, BacktestFile, "backtest", artifact.LastRun, artifact)
}

// PublishStress writes the stress audit
func (w *FileWriter) PublishStress(ctx context.Context, artifact *contracts.StressArtifact) error {
	if artifact == nil {
		return errors.New("publish stress: nil artifact")
	}
	return w.publish(ctx, StressFile, "stress", artifact.LastRun, artifact)
}

// ReadLive returns the raw bytes of a live artifact.
// Missing files map to contracts.ErrNoData.
func (w *FileWriter) ReadLive(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not published yet", contracts.ErrNoData, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (w *FileWriter) publish(ctx context.Context, liveName, prefix string, at time.Time, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", prefix, err)
	}

	livePath := filepath.Join(w.dir, liveName)
	if err := writeFileAtomic(livePath, data); err != nil {
		return fmt.Errorf("write live %s: %w", prefix, err)
	}

	archivePath, err := w.archive(prefix, at, data)
	if err != nil {
		return fmt.Errorf("write archive %s: %w", prefix, err)
	}

	w.logger.WithFields(map[string]interface{}{
		"live":    livePath,
		"archive": archivePath,
		"bytes":   len(data),
	}).Info("artifact published")
	return nil
}

// archive writes data under a name that does not exist yet.
// 같은 날짜 재실행 시 시각 접미사, 그래도 충돌하면 번호 접미사
func (w *FileWriter) archive(prefix string, at time.Time, data []byte) (string, error) {
	if err := os.MkdirAll(w.archiveDir, 0o755); err != nil {
		return "", err
	}

	at = at.UTC()
	candidates := []string{
		fmt.Sprintf("%s_%s.json", prefix, at.Format("2006-01-02")),
		fmt.Sprintf("%s_%s.json", prefix, at.Format("2006-01-02_150405")),
	}
	for i := 2; i < maxArchiveAttempts; i++ {
		candidates = append(candidates, fmt.Sprintf("%s_%s_%d.json", prefix, at.Format("2006-01-02_150405"), i))
	}

	for _, name := range candidates {
		path := filepath.Join(w.archiveDir, name)
		err := writeFileExclusive(path, data)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free archive name for %s at %s", prefix, at.Format(time.RFC3339))
}

// writeFileAtomic writes via temp file + rename
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// writeFileExclusive fails with os.ErrExist when path is taken
func writeFileExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
