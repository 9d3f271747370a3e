// 文件: pkg/signal/id.go
// 雪花算法 ID 生成器，用于给每个 SignalVector 分配全局唯一 id

package signal

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	initOnce sync.Once
	initErr  error
)

// InitSnowflake 初始化节点；nodeID 取值 0-1023，多实例部署时必须各不相同
func InitSnowflake(nodeID int64) error {
	initOnce.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
	})
	return initErr
}

// NewID 生成信号 id；未显式初始化时退化为节点 0
func NewID() string {
	if node == nil {
		_ = InitSnowflake(0)
	}
	return strconv.FormatInt(node.Generate().Int64(), 10)
}
