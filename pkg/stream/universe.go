// 文件: pkg/stream/universe.go
// PairUniverse: 交易对选择接口的最小占位实现
//
// 真正按市值排名选币的服务不在本模块范围内；这里只提供一个
// 静态/文件支撑的实现，满足 dispatch 循环启动时需要的接口。

package stream

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SymbolSpec 是交易对universe里的一条记录
type SymbolSpec struct {
	Symbol string
	Tier   string
}

// PairUniverse 返回本次运行要监控的交易对集合
type PairUniverse interface {
	Symbols() []SymbolSpec
}

// StaticUniverse 是编译期/配置期固定的交易对列表
type StaticUniverse struct {
	specs []SymbolSpec
}

// NewStaticUniverse 从一组 SymbolSpec 构造
func NewStaticUniverse(specs []SymbolSpec) *StaticUniverse {
	return &StaticUniverse{specs: specs}
}

func (u *StaticUniverse) Symbols() []SymbolSpec { return u.specs }

// LoadUniverseFile 从一个 "SYMBOL,tier" 每行一条的文件读取交易对列表
//
// 真实的市值排名数据源不在本模块范围内，这是给本地开发/测试用的替代品。
func LoadUniverseFile(path string) (*StaticUniverse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stream: open universe file: %w", err)
	}
	defer f.Close()

	var specs []SymbolSpec
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		symbol := strings.ToUpper(strings.TrimSpace(parts[0]))
		tier := "mid"
		if len(parts) == 2 {
			tier = strings.TrimSpace(parts[1])
		}
		specs = append(specs, SymbolSpec{Symbol: symbol, Tier: tier})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stream: scan universe file: %w", err)
	}
	return &StaticUniverse{specs: specs}, nil
}
