// 文件: pkg/kafka/producer.go
// Kafka 生产者
//
// 在这个模块里唯一的调用方是 pkg/signal.KafkaScheduler：延迟队列到点后
// 把触发信号时构造的 TaskMessage 发到 <exchange>_price / <exchange>_order。
// 生产者不是通用消息总线，它只认识"延迟任务"这一种载荷。
//
// 特点:
// - 异步发送，高吞吐
// - 错误处理
// - 优雅关闭

package kafka

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
)

// =============================================================================
// TaskMessage - 延迟任务载荷
// =============================================================================

// TaskMessage 是 pkg/signal.DelayedTask 到点后投递到 Kafka 的载荷形状：
// Queue 是目标 topic，SignalID 作为分区 key (保证同一信号的任务有序)，
// 其余字段按 spec.md §6 编码进消息体。
type TaskMessage struct {
	Queue       string // 目标 topic
	SignalID    string // 分区 key
	Symbol      string
	Kind        string
	TOffsetSec  int
	TimestampMs int64
}

func (m TaskMessage) value() ([]byte, error) {
	return json.Marshal(struct {
		ID          string `json:"id"`
		Symbol      string `json:"symbol"`
		Kind        string `json:"kind"`
		TOffsetSec  int    `json:"tOffsetSec,omitempty"`
		TimestampMs int64  `json:"timestamp,omitempty"`
	}{
		ID:          m.SignalID,
		Symbol:      m.Symbol,
		Kind:        m.Kind,
		TOffsetSec:  m.TOffsetSec,
		TimestampMs: m.TimestampMs,
	})
}

// =============================================================================
// Producer 配置
// =============================================================================

// ProducerConfig 生产者配置
type ProducerConfig struct {
	Brokers        []string      // Kafka broker 地址列表
	RequiredAcks   int           // 确认模式: 0=不等待, 1=leader确认, -1=全部确认
	Compression    string        // 压缩方式: none, gzip, snappy, lz4, zstd
	FlushFrequency time.Duration // 刷新间隔
	FlushMessages  int           // 批量消息数
	MaxRetries     int           // 最大重试次数
}

// DefaultProducerConfig 默认配置
func DefaultProducerConfig(brokers []string) ProducerConfig {
	return ProducerConfig{
		Brokers:        brokers,
		RequiredAcks:   1,
		Compression:    "snappy",
		FlushFrequency: 100 * time.Millisecond,
		FlushMessages:  100,
		MaxRetries:     3,
	}
}

// =============================================================================
// Producer 生产者
// =============================================================================

// Producer 投递延迟任务载荷的 Kafka 生产者
type Producer struct {
	producer sarama.AsyncProducer
	config   ProducerConfig

	// 统计
	sentCount  atomic.Int64
	errorCount atomic.Int64

	// 生命周期
	closed atomic.Bool
	wg     sync.WaitGroup
}

// NewProducer 创建生产者
func NewProducer(cfg ProducerConfig) (*Producer, error) {
	// 构建 Sarama 配置
	saramaConfig := sarama.NewConfig()

	// 确认模式
	switch cfg.RequiredAcks {
	case 0:
		saramaConfig.Producer.RequiredAcks = sarama.NoResponse
	case 1:
		saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	case -1:
		saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	default:
		saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	}

	// 压缩方式
	switch cfg.Compression {
	case "gzip":
		saramaConfig.Producer.Compression = sarama.CompressionGZIP
	case "snappy":
		saramaConfig.Producer.Compression = sarama.CompressionSnappy
	case "lz4":
		saramaConfig.Producer.Compression = sarama.CompressionLZ4
	case "zstd":
		saramaConfig.Producer.Compression = sarama.CompressionZSTD
	default:
		saramaConfig.Producer.Compression = sarama.CompressionNone
	}

	// 批量设置
	saramaConfig.Producer.Flush.Frequency = cfg.FlushFrequency
	saramaConfig.Producer.Flush.Messages = cfg.FlushMessages
	saramaConfig.Producer.Retry.Max = cfg.MaxRetries

	// 异步模式
	saramaConfig.Producer.Return.Successes = false
	saramaConfig.Producer.Return.Errors = true

	// 创建生产者
	producer, err := sarama.NewAsyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	p := &Producer{
		producer: producer,
		config:   cfg,
	}

	// 启动错误处理
	p.wg.Add(1)
	go p.handleErrors()

	return p, nil
}

// =============================================================================
// 发送接口
// =============================================================================

// SendTask 发送一个延迟任务载荷 (异步)
func (p *Producer) SendTask(msg TaskMessage) error {
	if p.closed.Load() {
		return fmt.Errorf("producer is closed")
	}

	data, err := msg.value()
	if err != nil {
		return fmt.Errorf("serialize task message: %w", err)
	}

	m := &sarama.ProducerMessage{
		Topic: msg.Queue,
		Key:   sarama.StringEncoder(msg.SignalID),
		Value: sarama.ByteEncoder(data),
	}

	p.producer.Input() <- m
	p.sentCount.Add(1)

	return nil
}

// =============================================================================
// 错误处理
// =============================================================================

func (p *Producer) handleErrors() {
	defer p.wg.Done()

	for err := range p.producer.Errors() {
		p.errorCount.Add(1)
		// TODO: 生产环境应该记录日志或发送告警
		fmt.Printf("[Kafka] send error: topic=%s, err=%v\n", err.Msg.Topic, err.Err)
	}
}

// =============================================================================
// 统计与生命周期
// =============================================================================

// ProducerStats 统计信息
type ProducerStats struct {
	SentCount  int64
	ErrorCount int64
}

// Stats 获取统计信息
func (p *Producer) Stats() ProducerStats {
	return ProducerStats{
		SentCount:  p.sentCount.Load(),
		ErrorCount: p.errorCount.Load(),
	}
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil // 已经关闭
	}

	err := p.producer.Close()
	p.wg.Wait() // 等待错误处理完成

	return err
}
