package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/history"
)

type memorySink struct {
	mu      sync.Mutex
	batches [][]domain.QueryRecord
	err     error
}

func (s *memorySink) WriteBatch(_ context.Context, records []domain.QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]domain.QueryRecord(nil), records...))
	return s.err
}

func (s *memorySink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func TestRecorder_DrainsOnStop(t *testing.T) {
	sink := &memorySink{}
	r := history.NewRecorder(zap.NewNop(), []history.Sink{sink}, history.WithBatch(100, time.Hour))
	r.Start()

	for range 250 {
		r.Record(domain.QueryRecord{UserID: "u-1", Service: "pasoš", Kind: domain.QueryKindEstimate})
	}
	r.Stop()

	assert.Equal(t, 250, sink.total())
	// две полные пачки и остаток при остановке
	require.Len(t, sink.batches, 3)
	assert.Len(t, sink.batches[0], 100)
	assert.Len(t, sink.batches[2], 50)
}

func TestRecorder_FlushesOnTimer(t *testing.T) {
	sink := &memorySink{}
	r := history.NewRecorder(zap.NewNop(), []history.Sink{sink}, history.WithBatch(100, 20*time.Millisecond))
	r.Start()
	defer r.Stop()

	r.Record(domain.QueryRecord{UserID: "u-1", Service: "pasoš"})

	assert.Eventually(t, func() bool { return sink.total() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRecorder_FillsIDAndTime(t *testing.T) {
	sink := &memorySink{}
	r := history.NewRecorder(zap.NewNop(), []history.Sink{sink})
	r.Start()
	r.Record(domain.QueryRecord{UserID: "u-1"})
	r.Stop()

	require.Equal(t, 1, sink.total())
	rec := sink.batches[0][0]
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestRecorder_AllSinksGetBatchEvenIfOneFails(t *testing.T) {
	broken := &memorySink{err: errors.New("db down")}
	healthy := &memorySink{}
	r := history.NewRecorder(zap.NewNop(), []history.Sink{broken, healthy})
	r.Start()
	r.Record(domain.QueryRecord{UserID: "u-1"})
	r.Stop()

	assert.Equal(t, 1, broken.total())
	assert.Equal(t, 1, healthy.total())
}

func TestRecorder_DropsAfterStopAndOnOverflow(t *testing.T) {
	sink := &memorySink{}
	r := history.NewRecorder(zap.NewNop(), []history.Sink{sink}, history.WithBufferSize(2))

	// воркер не запущен: третья запись не влезает в буфер
	for range 3 {
		r.Record(domain.QueryRecord{UserID: "u-1"})
	}
	r.Start()
	r.Stop()
	r.Stop()
	r.Record(domain.QueryRecord{UserID: "u-1"})

	assert.Equal(t, 2, sink.total())
}

func TestRecorder_ConcurrentRecordAndStop(t *testing.T) {
	sink := &memorySink{}
	r := history.NewRecorder(zap.NewNop(), []history.Sink{sink})
	r.Start()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				r.Record(domain.QueryRecord{UserID: "u-1"})
			}
		}()
	}
	r.Stop()
	wg.Wait()

	assert.LessOrEqual(t, sink.total(), 800)
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaSink_WriteBatch(t *testing.T) {
	w := &fakeWriter{}
	sink := history.NewKafkaSink(w)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	err := sink.WriteBatch(context.Background(), []domain.QueryRecord{
		{ID: "q-1", UserID: "u-1", Service: "pasoš", Kind: domain.QueryKindPredict, WaitMinutes: 14, CreatedAt: now},
		{ID: "q-2", UserID: "u-2", Service: "lična karta", Kind: domain.QueryKindEstimate, CreatedAt: now},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)

	assert.Equal(t, []byte("u-1"), w.msgs[0].Key)
	assert.Equal(t, now, w.msgs[0].Time)

	var decoded domain.QueryRecord
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "pasoš", decoded.Service)
	assert.Equal(t, 14, decoded.WaitMinutes)

	w.err = errors.New("broker unavailable")
	assert.Error(t, sink.WriteBatch(context.Background(), []domain.QueryRecord{{ID: "q-3"}}))
}
