package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/asquebay/coffee-order-service/internal/config"
	"github.com/asquebay/coffee-order-service/internal/lib/logger"
	"github.com/asquebay/coffee-order-service/internal/lib/tracing"
	"github.com/asquebay/coffee-order-service/internal/repository/memory"
	"github.com/asquebay/coffee-order-service/internal/service"
	httptransport "github.com/asquebay/coffee-order-service/internal/transport/http"
	"github.com/asquebay/coffee-order-service/internal/transport/kafka"
)

func main() {
	// 1. Инициализация конфигурации
	cfg := config.MustLoad(config.Path())

	// 2. Инициализация логгера
	log := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	log.Info("starting coffee-order-service", slog.String("log_level", cfg.Logger.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// run возвращается только после всех отложенных закрытий, поэтому выходить можно сразу
	err := run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("application stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("application stopped")
}

// run поднимает все компоненты и блокируется до отмены ctx или первой ошибки
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	const op = "main.run"

	// 3. Инициализация трассировки
	_, shutdownTracing, err := tracing.Init(cfg.Tracing, os.Stdout)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("failed to shutdown tracing", slog.String("error", err.Error()))
		}
	}()

	// 4. Инициализация in-memory хранилищ
	drinkRepo := memory.NewDrinkRepository()
	toppingRepo := memory.NewToppingRepository()
	orderRepo := memory.NewOrderRepository()

	// 5. Инициализация сервисного слоя
	catalogSvc := service.NewCatalogService(drinkRepo, toppingRepo, log)

	var publisher service.OrderPublisher = service.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, log)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error("error closing kafka producer", slog.String("error", err.Error()))
			}
		}()
		publisher = producer
	}
	orderSvc := service.NewOrderService(drinkRepo, toppingRepo, orderRepo, publisher, log)

	// 6. Заполнение каталога значениями по умолчанию
	if cfg.Catalog.Seed {
		if err := catalogSvc.Seed(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	// 7. Инициализация и запуск Kafka-консьюмера
	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka, orderSvc, log)
		g.Go(func() error {
			return consumer.Run(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			return consumer.Close()
		})
	}

	// 8. Инициализация и запуск HTTP-сервера
	handler := httptransport.NewHandler(catalogSvc, orderSvc, cfg.Catalog.DefaultLimit, log)
	httpServer := httptransport.NewServer(cfg.HTTPServer, handler)
	log.Info("starting http server", slog.String("port", cfg.HTTPServer.Port))

	g.Go(func() error {
		return httpServer.Run(gctx)
	})

	// 9. Graceful shutdown
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
