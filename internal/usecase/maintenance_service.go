package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/veldran/kingdom-manager/internal/platform/logging"
)

const (
	defaultSweepWorkers = 4
	maxSweepWorkers     = 32

	sweepStatusRepaired = "repaired"
	sweepStatusFailed   = "failed"
)

// StoreSweeper walks and repairs per-account store files.
type StoreSweeper interface {
	StoreFiles(ctx context.Context) ([]string, error)
	RepairSequence(ctx context.Context, file string) error
}

type SweepFileResult struct {
	File       string
	Status     string
	Message    string
	DurationMs int64
}

type SweepReport struct {
	FileCount     int
	WorkerCount   int
	RepairedCount int
	FailedCount   int
	Files         []SweepFileResult
}

type MaintenanceService struct {
	stores         StoreSweeper
	defaultWorkers int
	logger         *logging.Logger
}

func NewMaintenanceService(stores StoreSweeper, defaultWorkers int, logger *logging.Logger) *MaintenanceService {
	if defaultWorkers <= 0 {
		defaultWorkers = defaultSweepWorkers
	}
	return &MaintenanceService{stores: stores, defaultWorkers: defaultWorkers, logger: logger}
}

// SweepSequences repairs the player identifier sequence in every store
// file under the data directory, bounded by a worker pool. One broken
// file never stops the rest of the sweep.
func (s *MaintenanceService) SweepSequences(ctx context.Context, maxWorkers int) (SweepReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MaintenanceService.SweepSequences")
	defer span.End()

	files, err := s.stores.StoreFiles(ctx)
	if err != nil {
		return SweepReport{}, fmt.Errorf("list store files: %w", err)
	}

	workerCount := normalizeSweepWorkerCount(maxWorkers, s.defaultWorkers, len(files))
	report := SweepReport{
		FileCount:   len(files),
		WorkerCount: workerCount,
		Files:       make([]SweepFileResult, 0, len(files)),
	}
	if len(files) == 0 {
		return report, nil
	}

	results := make(chan SweepFileResult, len(files))

	var repairedCount atomic.Int32
	var failedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return SweepReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, file := range files {
		file := file
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := SweepFileResult{File: filepath.Base(file)}

			if err := s.stores.RepairSequence(ctx, file); err != nil {
				row.Status = sweepStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "sequence repair failed", "file", row.File, "error", err)
			} else {
				row.Status = sweepStatusRepaired
				repairedCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			results <- row
		}); err != nil {
			workers.Done()
			return SweepReport{}, fmt.Errorf("submit file to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		report.Files = append(report.Files, row)
	}

	sort.SliceStable(report.Files, func(i, j int) bool {
		return report.Files[i].File < report.Files[j].File
	})

	report.RepairedCount = int(repairedCount.Load())
	report.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "sequence sweep finished",
		"files", report.FileCount, "repaired", report.RepairedCount, "failed", report.FailedCount)
	return report, nil
}

func normalizeSweepWorkerCount(requested, fallback, fileCount int) int {
	workers := requested
	if workers <= 0 {
		workers = fallback
	}
	if workers <= 0 {
		workers = defaultSweepWorkers
	}
	if workers > maxSweepWorkers {
		workers = maxSweepWorkers
	}
	if fileCount > 0 && workers > fileCount {
		workers = fileCount
	}
	return workers
}
