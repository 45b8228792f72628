package history

/*
Recorder собирает историю запросов пользователей и пишет ее пачками.

- Record не блокирует обработчик HTTP: запись уходит в буферизованный канал,
  при переполнении отбрасывается с ошибкой в лог (Load Shedding).
- Воркер копит записи и сбрасывает их во все Sink по таймеру или по
  достижении размера пачки.
- Stop закрывает вход и дожидается финального flush (Drain Pattern).
*/

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
)

const (
	defaultBufferSize    = 10000
	defaultBatchSize     = 100
	defaultFlushInterval = 500 * time.Millisecond
	flushTimeout         = 5 * time.Second
)

// Sink определяет, куда физически сохраняется история
type Sink interface {
	// WriteBatch сохраняет пачку записей за один раз
	WriteBatch(ctx context.Context, records []domain.QueryRecord) error
}

type Recorder struct {
	ch            chan domain.QueryRecord
	sinks         []Sink
	batchSize     int
	flushInterval time.Duration
	logger        *zap.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex // защищает closed и close(ch) от гонки с Record
	closed bool
}

type Option func(*Recorder)

func WithBatch(size int, interval time.Duration) Option {
	return func(r *Recorder) {
		if size > 0 {
			r.batchSize = size
		}
		if interval > 0 {
			r.flushInterval = interval
		}
	}
}

func WithBufferSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.ch = make(chan domain.QueryRecord, n)
		}
	}
}

func NewRecorder(logger *zap.Logger, sinks []Sink, opts ...Option) *Recorder {
	r := &Recorder{
		ch:            make(chan domain.QueryRecord, defaultBufferSize),
		sinks:         sinks,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		logger:        logger.Named("history"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) Start() {
	r.wg.Add(1)
	go r.worker()
}

// Stop «запирает» вход в канал и ждет, пока воркер всё допишет.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	r.logger.Info("stopping recorder: flushing buffer...")
	r.wg.Wait()
	r.logger.Info("recorder stopped gracefully")
}

// Record ставит запись в очередь. Пустые ID и время заполняются здесь.
func (r *Recorder) Record(rec domain.QueryRecord) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.logger.Warn("query record dropped: recorder is stopping", zap.String("id", rec.ID))
		return
	}

	select {
	case r.ch <- rec:
	default:
		r.logger.Error("history_buffer_overflow",
			zap.String("user_id", rec.UserID),
			zap.String("trace_id", rec.TraceID))
	}
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	batch := make([]domain.QueryRecord, 0, r.batchSize)
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Background: контекст запроса к этому моменту давно закрыт
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		for _, s := range r.sinks {
			if err := s.WriteBatch(ctx, batch); err != nil {
				r.logger.Error("history flush failed", zap.Int("records", len(batch)), zap.Error(err))
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec, ok := <-r.ch:
			if !ok {
				flush() // Финальный сброс
				r.logger.Info("history worker finished")
				return
			}
			batch = append(batch, rec)
			if len(batch) >= r.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
