// 文件: cmd/gate/main.go
// 进程入口：拼装 transport -> dispatch -> signal follow-up 的完整链路

package main

import (
	"context"
	"log"
	"os"
	osSignal "os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/quantgate/gate/pkg/config"
	"github.com/quantgate/gate/pkg/dispatch"
	"github.com/quantgate/gate/pkg/kafka"
	"github.com/quantgate/gate/pkg/monitor"
	natspkg "github.com/quantgate/gate/pkg/nats"
	"github.com/quantgate/gate/pkg/obworker"
	gatesignal "github.com/quantgate/gate/pkg/signal"
	"github.com/quantgate/gate/pkg/stream"
	"github.com/quantgate/gate/pkg/tape"
	"github.com/quantgate/gate/pkg/trajectory"
)

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	cfg := config.Load()

	universe, err := loadUniverse(cfg)
	if err != nil {
		log.Fatalf("[Gate] load universe: %v", err)
	}
	specs := universe.Symbols()
	if len(specs) == 0 {
		log.Fatalf("[Gate] pair universe is empty, nothing to monitor")
	}
	log.Printf("[Gate] monitoring %d symbols", len(specs))

	if err := gatesignal.InitSnowflake(cfg.SnowflakeNode); err != nil {
		log.Fatalf("[Gate] init snowflake node=%d: %v", cfg.SnowflakeNode, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	barStore := tape.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}))
	priceTape := tape.New(barStore)

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("[Gate] connect mongodb: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("[Gate] ping mongodb: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDB)

	producer, err := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers))
	if err != nil {
		log.Fatalf("[Gate] create kafka producer: %v", err)
	}
	defer producer.Close()

	scheduler := gatesignal.NewKafkaScheduler(producer)
	go scheduler.Run(ctx)

	var broadcaster gatesignal.SignalBroadcaster
	if cfg.NatsURL != "" {
		natsPub, err := natspkg.NewPublisher(cfg.NatsURL)
		if err != nil {
			log.Fatalf("[Gate] connect nats: %v", err)
		}
		nb := gatesignal.NewNatsBroadcaster(natsPub, cfg.Exchange)
		defer nb.Close()
		broadcaster = nb

		// 本地开发时直接订阅自己发布的信号流，不需要另起一个监控面板
		mirror, err := natspkg.NewSubscriber(cfg.NatsURL, func(subject string, v *monitor.SignalVector) error {
			log.Printf("[NATS] signal subject=%s symbol=%s price=%.8f", subject, v.Symbol, v.TriggerPrice)
			return nil
		})
		if err != nil {
			log.Fatalf("[Gate] subscribe nats: %v", err)
		}
		if err := mirror.Subscribe(cfg.Exchange + ".signals"); err != nil {
			log.Fatalf("[Gate] subscribe nats subject: %v", err)
		}
		defer mirror.Close()
	}

	sink := gatesignal.NewMongoSink(db)
	followUp := gatesignal.NewFollowUpDispatcher(cfg.Exchange, sink, scheduler, broadcaster)

	loop := dispatch.New(specs, priceTape, followUp.HandleSignal, cfg.MonitorConfig(), time.Duration(cfg.CheckSignalIntervalMs)*time.Millisecond)

	router := stream.NewStreamRouter(stream.RouterConfig{
		BaseURL: cfg.StreamBaseURL,
		Topics:  buildTopics(specs),
	})
	go router.Run(ctx)

	trajWorker := trajectory.NewWorker(cfg.Exchange, barStore, trajectory.NewMongoTrajectoryStore(db))
	trajConsumer, err := kafka.NewConsumer(
		kafka.DefaultConsumerConfig(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{cfg.Exchange + "_price"}),
		trajWorker.HandleMessage,
	)
	if err != nil {
		log.Fatalf("[Gate] create trajectory consumer: %v", err)
	}
	trajConsumer.Start()
	defer trajConsumer.Stop()

	obWorker := obworker.NewWorker(
		obworker.NewRESTDepthFetcher(cfg.DepthRestBaseURL),
		obworker.NewMongoOrderbookStore(db),
	)
	obConsumer, err := kafka.NewConsumer(
		kafka.DefaultConsumerConfig(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{cfg.Exchange + "_order"}),
		obWorker.HandleMessage,
	)
	if err != nil {
		log.Fatalf("[Gate] create orderbook consumer: %v", err)
	}
	obConsumer.Start()
	defer obConsumer.Stop()

	sigCh := make(chan os.Signal, 1)
	osSignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go loop.Run(ctx, router.Events())

	<-sigCh
	log.Println("[Gate] shutting down")
	cancel()
	time.Sleep(200 * time.Millisecond) // 给 tape flush 和 consumer 一点收尾时间
}

func loadUniverse(cfg *config.Config) (stream.PairUniverse, error) {
	if cfg.UniverseFile == "" {
		return stream.NewStaticUniverse(nil), nil
	}
	return stream.LoadUniverseFile(cfg.UniverseFile)
}

// buildTopics 给每个 symbol 订阅 aggTrade/ticker/bookTicker/depth5 四个流
func buildTopics(specs []stream.SymbolSpec) []string {
	topics := make([]string, 0, len(specs)*4)
	for _, s := range specs {
		lc := strings.ToLower(s.Symbol)
		topics = append(topics,
			lc+"@aggTrade",
			lc+"@ticker",
			lc+"@bookTicker",
			lc+"@depth5@100ms",
		)
	}
	return topics
}
