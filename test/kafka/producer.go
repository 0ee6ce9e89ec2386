// этот код не зависит от приложения,
// и нужен только для ручной проверки приёма заявок на заказ через кафку
package main

import (
	"context"
	"flag"
	"log"

	"github.com/segmentio/kafka-go"
)

func main() {
	// значения по умолчанию совпадают с config/config.yaml
	brokerAddress := flag.String("broker", "localhost:9092", "kafka broker address")
	topic := flag.String("topic", "order_requests", "order requests topic")
	flag.Parse()

	// три группы: сработает скидка "самая дешёвая позиция бесплатно"
	message := `{
           "drink_ids": [[1], [2], [3]],
           "topping_ids": [[1], [], [2, 4]]
        }`

	// настройки писателя (producer-а)
	writer := &kafka.Writer{
		Addr:     kafka.TCP(*brokerAddress),
		Topic:    *topic,
		Balancer: &kafka.LeastBytes{},
	}
	defer writer.Close()

	log.Println("Sending order request to Kafka...")
	err := writer.WriteMessages(context.Background(),
		kafka.Message{
			Value: []byte(message),
		},
	)
	if err != nil {
		log.Fatalf("Failed to write message: %v", err)
	}

	log.Println("Order request sent successfully!")
}
