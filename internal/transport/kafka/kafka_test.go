package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asquebay/coffee-order-service/internal/lib/logger"
	"github.com/asquebay/coffee-order-service/internal/model"
)

// fakePlacer возвращает err на первых failures вызовах, при failures == 0 на всех
type fakePlacer struct {
	mu       sync.Mutex
	requests []model.OrderCreate
	err      error
	failures int
}

func (f *fakePlacer) PlaceOrder(_ context.Context, req model.OrderCreate) (model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil && (f.failures == 0 || len(f.requests) <= f.failures) {
		return model.Order{}, f.err
	}
	return model.Order{ID: len(f.requests), DrinkIDs: req.DrinkIDs, ToppingIDs: req.ToppingIDs}, nil
}

// fakeReader отдаёт сообщения по очереди, затем io.EOF
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return kafka.Message{}, err
	}
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestConsumer_HandleMessage(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		placeErr   error
		wantErr    bool
		wantPlaced int
	}{
		{name: "valid request", value: `{"drink_ids": [[1]], "topping_ids": [[2]]}`, wantPlaced: 1},
		{name: "invalid json is skipped", value: `{"drink_ids":`, wantPlaced: 0},
		{name: "rejected request is skipped", value: `{"drink_ids": [[]], "topping_ids": [[]]}`, placeErr: model.NewInvalidRequest("drink ids cannot be empty"), wantPlaced: 1},
		{name: "unknown drink is skipped", value: `{"drink_ids": [[999]], "topping_ids": [[]]}`, placeErr: fmt.Errorf("op: %w", model.NewNotFound(model.EntityDrink, 999)), wantPlaced: 1},
		{name: "unexpected error is returned", value: `{"drink_ids": [[1]], "topping_ids": [[]]}`, placeErr: errors.New("boom"), wantErr: true, wantPlaced: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placer := &fakePlacer{err: tt.placeErr}
			c := &Consumer{reader: &fakeReader{}, service: placer, log: logger.Discard()}

			err := c.handleMessage(context.Background(), kafka.Message{Value: []byte(tt.value)})
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Len(t, placer.requests, tt.wantPlaced)
		})
	}
}

func TestConsumer_RunCommitsHandledMessages(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Offset: 1, Value: []byte(`{"drink_ids": [[1]], "topping_ids": [[1]]}`)},
		{Offset: 2, Value: []byte(`not json`)},
		{Offset: 3, Value: []byte(`{"drink_ids": [[2]], "topping_ids": [[]]}`)},
	}}
	placer := &fakePlacer{}
	c := &Consumer{reader: reader, service: placer, log: logger.Discard()}

	require.NoError(t, c.Run(context.Background()))

	require.Len(t, placer.requests, 2)
	assert.Equal(t, [][]int{{2}}, placer.requests[1].DrinkIDs)

	offsets := make([]int64, 0, len(reader.committed))
	for _, m := range reader.committed {
		offsets = append(offsets, m.Offset)
	}
	assert.Equal(t, []int64{1, 2, 3}, offsets)
}

func TestConsumer_RunRetriesFailedMessageBeforeMovingOn(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Offset: 7, Value: []byte(`{"drink_ids": [[1]], "topping_ids": [[1]]}`)},
		{Offset: 8, Value: []byte(`{"drink_ids": [[2]], "topping_ids": [[]]}`)},
	}}
	placer := &fakePlacer{err: errors.New("storage unavailable"), failures: 2}
	c := &Consumer{reader: reader, service: placer, log: logger.Discard(), baseDelay: time.Millisecond, maxDelay: 4 * time.Millisecond}

	require.NoError(t, c.Run(context.Background()))

	// offset 7 обработан с третьей попытки, и только потом взят offset 8
	require.Len(t, placer.requests, 4)
	assert.Equal(t, [][]int{{1}}, placer.requests[2].DrinkIDs)
	assert.Equal(t, [][]int{{2}}, placer.requests[3].DrinkIDs)

	require.Len(t, reader.committed, 2)
	assert.Equal(t, int64(7), reader.committed[0].Offset)
	assert.Equal(t, int64(8), reader.committed[1].Offset)
}

func TestConsumer_RunStopsRetryingOnCancelWithoutCommit(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Offset: 7, Value: []byte(`{"drink_ids": [[1]], "topping_ids": [[1]]}`)},
		{Offset: 8, Value: []byte(`{"drink_ids": [[2]], "topping_ids": [[]]}`)},
	}}
	placer := &fakePlacer{err: errors.New("storage unavailable")}
	c := &Consumer{reader: reader, service: placer, log: logger.Discard(), baseDelay: time.Millisecond, maxDelay: 2 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, c.Run(ctx))

	assert.Empty(t, reader.committed)
	assert.Len(t, reader.messages, 1, "the next message must not be fetched while the failed one is pending")
	placer.mu.Lock()
	defer placer.mu.Unlock()
	assert.Greater(t, len(placer.requests), 1)
	for _, req := range placer.requests {
		assert.Equal(t, [][]int{{1}}, req.DrinkIDs)
	}
}

func TestConsumer_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Consumer{reader: &fakeReader{}, service: &fakePlacer{}, log: logger.Discard()}
	require.NoError(t, c.Run(ctx))

	require.NoError(t, c.Close())
	assert.True(t, c.reader.(*fakeReader).closed)
}

func TestProducer_PublishOrder(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, log: logger.Discard()}

	order := model.Order{
		ID:               12,
		DrinkIDs:         [][]int{{1}, {2}, {3}},
		ToppingIDs:       [][]int{{}, {}, {}},
		TotalAmount:      15,
		DiscountedAmount: 11,
		CreatedAt:        time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishOrder(context.Background(), order))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "12", string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: EventTypeHeader, Value: []byte(EventOrderPlaced)}}, msg.Headers)

	var got model.Order
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, order, got)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishOrderError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker unavailable")}, log: logger.Discard()}

	err := p.PublishOrder(context.Background(), model.Order{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}
