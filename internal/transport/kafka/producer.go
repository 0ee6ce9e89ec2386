package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/asquebay/coffee-order-service/internal/config"
	"github.com/asquebay/coffee-order-service/internal/model"
)

// EventTypeHeader заголовок с типом события
const (
	EventTypeHeader  = "event_type"
	EventOrderPlaced = "order_placed"
)

const publishTimeout = 5 * time.Second

// messageWriter подмножество kafka.Writer, которое использует продюсер
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует размещённые заказы в топик заказов
type Producer struct {
	writer messageWriter
	log    *slog.Logger
}

// NewProducer создаёт продюсер для топика cfg.OrdersTopic
func NewProducer(cfg config.Kafka, log *slog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.Hash{}, // заказ с одним id всегда попадает в одну партицию
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		WriteTimeout: publishTimeout,
	}

	return &Producer{
		writer: writer,
		log:    log,
	}
}

// PublishOrder отправляет заказ в виде JSON, ключ сообщения это id заказа
func (p *Producer) PublishOrder(ctx context.Context, order model.Order) error {
	const op = "transport.kafka.Producer.PublishOrder"

	value, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal order: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(strconv.Itoa(order.ID)),
		Value:   value,
		Headers: []kafka.Header{{Key: EventTypeHeader, Value: []byte(EventOrderPlaced)}},
		Time:    order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.log.Debug("order published", slog.String("op", op), slog.Int("order_id", order.ID))
	return nil
}

// Close дожидается отправки буферизованных сообщений и закрывает соединения
func (p *Producer) Close() error {
	p.log.Info("Closing kafka producer")
	return p.writer.Close()
}
