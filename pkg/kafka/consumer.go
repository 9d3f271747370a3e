// 文件: pkg/kafka/consumer.go
// Kafka 消费者
//
// pkg/trajectory.Worker 和 pkg/obworker.Worker 各开一个消费者组，
// 分别订阅 <exchange>_price 和 <exchange>_order；两者消费的都是
// pkg/signal.KafkaScheduler 投递的同一种 TaskMessage 载荷，解码在
// 这里统一完成，两个 worker 的 TaskHandler 只处理已经解出来的字段。
//
// 特点:
// - 消费者组支持
// - 自动提交/手动提交
// - 优雅关闭
// - 回调处理

package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
)

// =============================================================================
// Consumer 配置
// =============================================================================

// ConsumerConfig 消费者配置
type ConsumerConfig struct {
	Brokers       []string // Kafka broker 地址列表
	GroupID       string   // 消费者组 ID
	Topics        []string // 订阅的 topics
	OffsetInitial int64    // 初始 offset: -1=newest, -2=oldest
	AutoCommit    bool     // 是否自动提交 offset
}

// DefaultConsumerConfig 默认配置
func DefaultConsumerConfig(brokers []string, groupID string, topics []string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:       brokers,
		GroupID:       groupID,
		Topics:        topics,
		OffsetInitial: sarama.OffsetNewest,
		AutoCommit:    true,
	}
}

// =============================================================================
// TaskHandler 任务处理器
// =============================================================================

// taskPayload 是 TaskMessage.value() 编码进消息体的 JSON 形状，
// 消费者先解到这里，再转换成 TaskMessage 交给 TaskHandler。
type taskPayload struct {
	SignalID    string `json:"id"`
	Symbol      string `json:"symbol"`
	Kind        string `json:"kind"`
	TOffsetSec  int    `json:"tOffsetSec"`
	TimestampMs int64  `json:"timestamp"`
}

// TaskHandler 消费一个已解码的延迟任务；pkg/trajectory.Worker 和
// pkg/obworker.Worker 的 HandleMessage 方法就是这个类型
type TaskHandler func(task TaskMessage) error

// =============================================================================
// Consumer 消费者
// =============================================================================

// Consumer 消费延迟任务的 Kafka 消费者组
type Consumer struct {
	client  sarama.ConsumerGroup
	config  ConsumerConfig
	handler TaskHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer 创建消费者
func NewConsumer(cfg ConsumerConfig, handler TaskHandler) (*Consumer, error) {
	// 构建 Sarama 配置
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	saramaConfig.Consumer.Offsets.Initial = cfg.OffsetInitial
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = cfg.AutoCommit

	// 创建消费者组
	client, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		client:  client,
		config:  cfg,
		handler: handler,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start 启动消费
func (c *Consumer) Start() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			// 加入消费者组
			handler := &consumerGroupHandler{handler: c.handler}
			err := c.client.Consume(c.ctx, c.config.Topics, handler)
			if err != nil {
				fmt.Printf("[Kafka] consume error: %v\n", err)
			}

			// 检查是否应该退出
			if c.ctx.Err() != nil {
				return
			}
		}
	}()
}

// Stop 停止消费
func (c *Consumer) Stop() error {
	c.cancel()
	c.wg.Wait()
	return c.client.Close()
}

// =============================================================================
// Sarama ConsumerGroupHandler 实现
// =============================================================================

type consumerGroupHandler struct {
	handler TaskHandler
}

func (h *consumerGroupHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var payload taskPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			fmt.Printf("[Kafka] decode task error: topic=%s, offset=%d, err=%v\n", msg.Topic, msg.Offset, err)
			session.MarkMessage(msg, "")
			continue
		}
		task := TaskMessage{
			Queue:       msg.Topic,
			SignalID:    payload.SignalID,
			Symbol:      payload.Symbol,
			Kind:        payload.Kind,
			TOffsetSec:  payload.TOffsetSec,
			TimestampMs: payload.TimestampMs,
		}

		if err := h.handler(task); err != nil {
			fmt.Printf("[Kafka] handle error: topic=%s, offset=%d, signalId=%s, err=%v\n", msg.Topic, msg.Offset, task.SignalID, err)
			// 继续处理下一条，不中断
		}

		// 标记已处理
		session.MarkMessage(msg, "")
	}
	return nil
}
