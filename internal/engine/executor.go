package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Executor распределяет n независимых задач по исполнителям.
// Execute возвращается только после завершения всех запущенных задач (барьер fan-in);
// первая ошибка любой задачи валит весь пакет.
type Executor interface {
	Execute(ctx context.Context, n int, task func(ctx context.Context, i int) error) error
}

// PoolExecutor — ограниченный пул горутин.
type PoolExecutor struct {
	workers int
}

// NewPoolExecutor создает пул; workers <= 0 означает по одному воркеру на CPU.
func NewPoolExecutor(workers int) *PoolExecutor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &PoolExecutor{workers: workers}
}

// Workers возвращает размер пула.
func (p *PoolExecutor) Workers() int {
	return p.workers
}

func (p *PoolExecutor) Execute(ctx context.Context, n int, task func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return task(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Отмена снаружи без ошибок задач: часть сценариев могла не запуститься
	return ctx.Err()
}

// SerialExecutor выполняет задачи по очереди в вызывающей горутине.
// Нужен для детерминированных тестов.
type SerialExecutor struct{}

func (SerialExecutor) Execute(ctx context.Context, n int, task func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := task(ctx, i); err != nil {
			return err
		}
	}
	return nil
}
