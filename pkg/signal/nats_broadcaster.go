// 文件: pkg/signal/nats_broadcaster.go
// NatsBroadcaster: 把通过门控的信号发布到 NATS，供同机/旁路的观察者订阅
//
// 这是 pkg/nats 在这个模块里的落点：它比 Kafka 轻，不需要消费者组，
// 适合本地开发时直接订阅查看信号流，跟 DelayQueue/Kafka 那条持久化
// 延迟任务的路径完全独立。

package signal

import (
	"fmt"
	"log"

	"github.com/quantgate/gate/pkg/monitor"
	"github.com/quantgate/gate/pkg/nats"
)

// NatsBroadcaster 把每个通过门控的信号发布到 "<exchange>.signals" 主题
type NatsBroadcaster struct {
	pub      *nats.Publisher
	exchange string
}

// NewNatsBroadcaster 包装一个已经连接好的 nats.Publisher
func NewNatsBroadcaster(pub *nats.Publisher, exchange string) *NatsBroadcaster {
	return &NatsBroadcaster{pub: pub, exchange: exchange}
}

func (b *NatsBroadcaster) subject() string {
	return fmt.Sprintf("%s.signals", b.exchange)
}

// Broadcast 把信号序列化成 JSON 发到 NATS；发布失败只记日志，不影响调用方
func (b *NatsBroadcaster) Broadcast(v *monitor.SignalVector) {
	if err := b.pub.PublishSignal(b.subject(), v); err != nil {
		log.Printf("[NATS] publish failed subject=%s: %v", b.subject(), err)
	}
}

// Close 关闭底层的 NATS 连接
func (b *NatsBroadcaster) Close() { b.pub.Close() }
