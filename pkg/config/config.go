// 文件: pkg/config/config.go
// 进程级配置：flag 优先，环境变量兜底

package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/quantgate/gate/pkg/monitor"
)

// Config 聚合了启动一个完整 gate 进程需要的全部外部依赖地址和常量
type Config struct {
	// 交易所标识，出现在 queue 名、task kind、signal 文档的 exchange 字段里
	Exchange string

	// 交易对清单文件：每行 "SYMBOL,tier"
	UniverseFile string

	// Transport
	StreamBaseURL string

	// 秒级 K 线存储 (Redis)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// 文档存储 (MongoDB)
	MongoURI string
	MongoDB  string

	// Kafka
	KafkaBrokers  []string
	KafkaGroupID  string
	SnowflakeNode int64

	// 订单簿 worker 的 REST 深度端点
	DepthRestBaseURL string

	// 实时信号广播 (NATS，空字符串表示关闭)
	NatsURL string

	// 门控常量 (spec.md §6)，都可以用 flag/环境变量按进程覆盖，
	// 默认值跟 monitor.DefaultConfig 保持一致
	CheckSignalIntervalMs int

	PriceBucketDurationMs int64
	AggTradeBufferSize    int
	PriceLookbackWindowMs int64
	PriceSlopeAlpha       float64
	PriceSlopeZScore      float64
	MinTradesIn1s         int
	MaxBidAskSpreadPct    float64

	EwmaAlphaFast         float64
	EwmaAlphaMedium       float64
	EwmaAlphaSlow         float64
	TakerRatioSmoothAlpha float64

	MinVolumeSpikeRatio1m5m float64
	VolumeAccelZScore       float64
	SignalCooldownMs        int64
	TimeCacheDurationMs     int64
}

// MonitorConfig 把门控常量映射成 monitor.Config，喂给每个 symbol 的 monitor
func (c *Config) MonitorConfig() monitor.Config {
	return monitor.Config{
		PriceBucketDurationMs:   c.PriceBucketDurationMs,
		AggTradeBufferSize:      c.AggTradeBufferSize,
		PriceLookbackWindowMs:   c.PriceLookbackWindowMs,
		PriceSlopeAlpha:         c.PriceSlopeAlpha,
		PriceSlopeZScore:        c.PriceSlopeZScore,
		MinTradesIn1s:           c.MinTradesIn1s,
		MaxBidAskSpreadPct:      c.MaxBidAskSpreadPct,
		EwmaAlphaFast:           c.EwmaAlphaFast,
		EwmaAlphaMedium:         c.EwmaAlphaMedium,
		EwmaAlphaSlow:           c.EwmaAlphaSlow,
		TakerRatioSmoothAlpha:   c.TakerRatioSmoothAlpha,
		MinVolumeSpikeRatio1m5m: c.MinVolumeSpikeRatio1m5m,
		VolumeAccelZScore:       c.VolumeAccelZScore,
		SignalCooldownMs:        c.SignalCooldownMs,
		TimeCacheDurationMs:     c.TimeCacheDurationMs,
	}
}

// Load 解析命令行参数，未指定时退化到对应的环境变量，再退化到写死的默认值
func Load() *Config {
	c := &Config{}

	flag.StringVar(&c.Exchange, "exchange", envStr("GATE_EXCHANGE", "binance"), "exchange identifier used in queue/task/document naming")
	flag.StringVar(&c.UniverseFile, "universe-file", envStr("GATE_UNIVERSE_FILE", ""), "path to the pair universe file (SYMBOL,tier per line)")

	flag.StringVar(&c.StreamBaseURL, "stream-base-url", envStr("GATE_STREAM_BASE_URL", "wss://stream.binance.com:9443"), "websocket base URL for the market data transport")

	flag.StringVar(&c.RedisAddr, "redis-addr", envStr("REDIS_ADDR", "localhost:6379"), "redis address for the second-bar tape store")
	flag.StringVar(&c.RedisPassword, "redis-password", envStr("REDIS_PASSWORD", ""), "redis password")
	flag.IntVar(&c.RedisDB, "redis-db", envInt("REDIS_DB", 0), "redis logical database index")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	flag.StringVar(&c.MongoDB, "mongo-db", envStr("MONGO_DB", "gate"), "MongoDB database name")

	brokers := flag.String("kafka-brokers", envStr("KAFKA_BROKERS", "localhost:9092"), "comma-separated Kafka broker list")
	flag.StringVar(&c.KafkaGroupID, "kafka-group-id", envStr("KAFKA_GROUP_ID", "gate-workers"), "Kafka consumer group id shared by the trajectory and orderbook workers")
	flag.Int64Var(&c.SnowflakeNode, "snowflake-node", envInt64("SNOWFLAKE_NODE", 0), "snowflake node id, must be unique per running instance")

	flag.StringVar(&c.DepthRestBaseURL, "depth-rest-base-url", envStr("GATE_DEPTH_REST_BASE_URL", "https://api.binance.com/api/v3"), "REST base URL the orderbook worker polls for depth-5 snapshots")

	flag.StringVar(&c.NatsURL, "nats-url", envStr("NATS_URL", ""), "NATS server URL for real-time signal broadcast (empty disables it)")

	flag.IntVar(&c.CheckSignalIntervalMs, "check-signal-interval-ms", envInt("CHECK_SIGNAL_INTERVAL_MS", 250), "periodic computation and gate-check tick interval")

	def := monitor.DefaultConfig()
	flag.Int64Var(&c.PriceBucketDurationMs, "price-bucket-duration-ms", envInt64("PRICE_BUCKET_DURATION_MS", def.PriceBucketDurationMs), "width of the rolling price bucket used by the price-slope gate")
	flag.IntVar(&c.AggTradeBufferSize, "agg-trade-buffer-size", envInt("AGG_TRADE_BUFFER_SIZE", def.AggTradeBufferSize), "capacity of the per-symbol aggTrade ring buffer")
	flag.Int64Var(&c.PriceLookbackWindowMs, "price-lookback-window-ms", envInt64("PRICE_LOOKBACK_WINDOW_MS", def.PriceLookbackWindowMs), "lookback window for the price-change gate")
	flag.Float64Var(&c.PriceSlopeAlpha, "price-slope-alpha", envFloat64("PRICE_SLOPE_ALPHA", def.PriceSlopeAlpha), "EWMA alpha for the smoothed price slope")
	flag.Float64Var(&c.PriceSlopeZScore, "price-slope-zscore", envFloat64("PRICE_SLOPE_ZSCORE", def.PriceSlopeZScore), "minimum z-score of the price slope required to trigger a signal")
	flag.IntVar(&c.MinTradesIn1s, "min-trades-in-1s", envInt("MIN_TRADES_IN_1S", def.MinTradesIn1s), "minimum trade count in the trailing 1s window")
	flag.Float64Var(&c.MaxBidAskSpreadPct, "max-bid-ask-spread-pct", envFloat64("MAX_BID_ASK_SPREAD_PCT", def.MaxBidAskSpreadPct), "maximum bid/ask spread percentage allowed through the spread gate")

	flag.Float64Var(&c.EwmaAlphaFast, "ewma-alpha-fast", envFloat64("EWMA_ALPHA_FAST", def.EwmaAlphaFast), "fast EWMA alpha for the volume estimator")
	flag.Float64Var(&c.EwmaAlphaMedium, "ewma-alpha-medium", envFloat64("EWMA_ALPHA_MEDIUM", def.EwmaAlphaMedium), "medium (1m) EWMA alpha for the volume estimator")
	flag.Float64Var(&c.EwmaAlphaSlow, "ewma-alpha-slow", envFloat64("EWMA_ALPHA_SLOW", def.EwmaAlphaSlow), "slow (5m) EWMA alpha for the volume estimator")
	flag.Float64Var(&c.TakerRatioSmoothAlpha, "taker-ratio-smooth-alpha", envFloat64("TAKER_RATIO_SMOOTH_ALPHA", def.TakerRatioSmoothAlpha), "EWMA alpha for the smoothed taker buy/sell ratio")

	flag.Float64Var(&c.MinVolumeSpikeRatio1m5m, "min-volume-spike-ratio-1m5m", envFloat64("MIN_VOLUME_SPIKE_RATIO_1M5M", def.MinVolumeSpikeRatio1m5m), "minimum 1m/5m volume EWMA ratio required to trigger a signal")
	flag.Float64Var(&c.VolumeAccelZScore, "volume-accel-zscore", envFloat64("VOLUME_ACCEL_ZSCORE", def.VolumeAccelZScore), "minimum z-score of the volume acceleration required to trigger a signal")
	signalCooldown := flag.Int64("signal-cooldown-ms", envInt64("SIGNAL_COOLDOWN_MS", def.SignalCooldownMs), "minimum time between two signals on the same symbol")
	flag.Int64Var(&c.TimeCacheDurationMs, "time-cache-duration-ms", envInt64("TIME_CACHE_DURATION_MS", def.TimeCacheDurationMs), "refresh interval for the hour-of-day/day-of-week cache")

	flag.Parse()

	c.KafkaBrokers = splitCSV(*brokers)
	c.SignalCooldownMs = *signalCooldown

	return c
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func envFloat64(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}
