package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/campusmap/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// TopologyStore is the storage contract the bulk ingestor seeds.
type TopologyStore interface {
	Reset(ctx context.Context) error
	UpsertCanvas(ctx context.Context, canvas domain.Canvas) error
	UpsertBuilding(ctx context.Context, seq int, b domain.Building) error
	UpsertWalkway(ctx context.Context, seq int, w domain.Walkway) (bool, error)
	UpsertRoom(ctx context.Context, seq int, room domain.Room) error
	ReplaceSchedule(ctx context.Context, tag string, slots []domain.ScheduleSlot) error
}

// IngestReport counts what a bulk ingestion wrote.
type IngestReport struct {
	Buildings       int
	Walkways        int
	SkippedWalkways int
	Rooms           int
	Schedules       int
}

// BulkIngestor seeds a topology store using a bounded worker pool.
type BulkIngestor struct {
	store   TopologyStore
	workers int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(store TopologyStore, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		store:   store,
		workers: workers,
	}
}

// Ingest writes campus to the store. Buildings are written before walkways
// and rooms, since both link to them. Each row carries its declaration
// index so loads return the original order.
func (bi *BulkIngestor) Ingest(ctx context.Context, campus domain.Campus, reset bool) (IngestReport, error) {
	var report IngestReport

	if reset {
		if err := bi.store.Reset(ctx); err != nil {
			return report, err
		}
	}
	if err := bi.store.UpsertCanvas(ctx, campus.Canvas); err != nil {
		return report, err
	}

	err := bi.run(ctx, len(campus.Buildings), func(idx int) error {
		return bi.store.UpsertBuilding(ctx, idx, campus.Buildings[idx])
	})
	if err != nil {
		return report, fmt.Errorf("buildings: %w", err)
	}
	report.Buildings = len(campus.Buildings)

	var stored, skipped atomic.Int64
	err = bi.run(ctx, len(campus.Walkways), func(idx int) error {
		ok, err := bi.store.UpsertWalkway(ctx, idx, campus.Walkways[idx])
		if err != nil {
			return err
		}
		if ok {
			stored.Add(1)
		} else {
			skipped.Add(1)
		}
		return nil
	})
	report.Walkways = int(stored.Load())
	report.SkippedWalkways = int(skipped.Load())
	if err != nil {
		return report, fmt.Errorf("walkways: %w", err)
	}

	err = bi.run(ctx, len(campus.Rooms), func(idx int) error {
		return bi.store.UpsertRoom(ctx, idx, campus.Rooms[idx])
	})
	if err != nil {
		return report, fmt.Errorf("rooms: %w", err)
	}
	report.Rooms = len(campus.Rooms)

	tags := make([]string, 0, len(campus.Schedules))
	for tag := range campus.Schedules {
		tags = append(tags, tag)
	}
	err = bi.run(ctx, len(tags), func(idx int) error {
		return bi.store.ReplaceSchedule(ctx, tags[idx], campus.Schedules[tags[idx]])
	})
	if err != nil {
		return report, fmt.Errorf("schedules: %w", err)
	}
	report.Schedules = len(tags)

	return report, nil
}

// run calls workerFn for every index in [0, total) on at most bi.workers
// goroutines. Task failures are collected rather than aborting the batch;
// context cancellation stops scheduling and is returned as is.
func (bi *BulkIngestor) run(ctx context.Context, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		taskErr TaskError
	)
	g.SetLimit(bi.workers)

	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			if err := workerFn(idx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				mu.Lock()
				taskErr.append(err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return taskErr.asError()
}
