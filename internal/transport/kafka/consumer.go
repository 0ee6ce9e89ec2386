package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/asquebay/coffee-order-service/internal/config"
	"github.com/asquebay/coffee-order-service/internal/model"
)

// OrderPlacer абстрагирует консьюмер
// от конкретной реализации сервисного слоя
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req model.OrderCreate) (model.Order, error)
}

// messageReader подмножество kafka.Reader, которое использует консьюмер
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	retryBaseDelay = 200 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// Consumer читает заявки на заказ из кафки и размещает их через сервис
type Consumer struct {
	reader  messageReader
	service OrderPlacer
	log     *slog.Logger

	baseDelay time.Duration
	maxDelay  time.Duration
}

// NewConsumer создает новый экземпляр консьюмера
func NewConsumer(cfg config.Kafka, service OrderPlacer, log *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.RequestsTopic,
	})

	return &Consumer{
		reader:    reader,
		service:   service,
		log:       log,
		baseDelay: retryBaseDelay,
		maxDelay:  retryMaxDelay,
	}
}

// Run запускает цикл чтения сообщений из Kafka
// функция блокирующая и возвращается после отмены ctx или закрытия ридера
func (c *Consumer) Run(ctx context.Context) error {
	log := c.log.With(slog.String("component", "kafka_consumer"))
	log.Info("Kafka consumer started")

	for {
		// FetchMessage блокирует до тех пор, пока не придет новое сообщение или не возникнет ошибка
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// если контекст был отменен во время ожидания, это нормальное завершение
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("Context cancelled, stopping consumer.")
				return nil
			}
			// если ридер был закрыт, тоже выходим
			if errors.Is(err, io.EOF) {
				log.Info("Kafka reader closed")
				return nil
			}
			log.Error("failed to fetch message", slog.String("error", err.Error()))
			continue // пробуем снова
		}

		log.Info("received message", slog.String("topic", msg.Topic), slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset))

		// следующий коммит сдвинул бы offset за необработанное сообщение,
		// поэтому повторяем его на месте, пока не получится или не отменят ctx
		if !c.handleWithRetry(ctx, msg) {
			log.Info("Context cancelled, message left uncommitted", slog.Int64("offset", msg.Offset))
			return nil
		}

		// offset фиксируем только ПОСЛЕ успешной обработки
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Error("failed to commit message", slog.String("error", err.Error()))
		}
	}
}

// handleWithRetry повторяет обработку с экспоненциальной задержкой
// false означает, что ctx отменён раньше, чем сообщение удалось обработать
func (c *Consumer) handleWithRetry(ctx context.Context, msg kafka.Message) bool {
	delay, maxDelay := c.baseDelay, c.maxDelay
	if delay <= 0 || maxDelay <= 0 {
		delay, maxDelay = retryBaseDelay, retryMaxDelay
	}
	for {
		err := c.handleMessage(ctx, msg)
		if err == nil {
			return true
		}
		c.log.Error("failed to handle message, will retry",
			slog.Int64("offset", msg.Offset),
			slog.Duration("retry_in", delay),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		delay = min(delay*2, maxDelay)
	}
}

// handleMessage парсит заявку и размещает заказ
// nil означает, что сообщение можно подтвердить, даже если заказ не создан
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	var req model.OrderCreate

	if err := json.Unmarshal(msg.Value, &req); err != nil {
		// перечитывать невалидный JSON бессмысленно
		c.log.Warn("failed to unmarshal message, skipping", slog.String("error", err.Error()))
		return nil
	}

	order, err := c.service.PlaceOrder(ctx, req)
	if err != nil {
		// заявка с несуществующими id или пустыми группами не станет валидной при повторе
		if errors.Is(err, model.ErrInvalidRequest) || errors.Is(err, model.ErrNotFound) {
			c.log.Warn("order request rejected, skipping", slog.String("error", err.Error()))
			return nil
		}
		return err
	}

	c.log.Info("order request successfully processed", slog.Int("order_id", order.ID))
	return nil
}

// Close останавливает консьюмер
func (c *Consumer) Close() error {
	c.log.Info("Closing kafka consumer")
	return c.reader.Close()
}
