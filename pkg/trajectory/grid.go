// 文件: pkg/trajectory/grid.go
// 固定偏移网格与 symbol 归一化

package trajectory

// offsetGrid 是信号触发后要采样的秒偏移集合：前 30 秒逐秒采样，
// 之后每 30 秒采样一次直到 1800 秒（30 分钟），但跳过 2100（按来源数据本来就没有这一档）
var offsetGrid = buildOffsetGrid()

func buildOffsetGrid() []int {
	grid := make([]int, 0, 30+60)
	for s := 1; s <= 30; s++ {
		grid = append(grid, s)
	}
	grid = append(grid, 45)
	for s := 60; s <= 1800; s += 30 {
		if s == 2100 {
			continue
		}
		grid = append(grid, s)
	}
	return grid
}

// OffsetGrid 返回采样网格的一份拷贝
func OffsetGrid() []int {
	out := make([]int, len(offsetGrid))
	copy(out, offsetGrid)
	return out
}

// normalizeSymbol 大写并去掉非字母数字字符
func normalizeSymbol(symbol string) string {
	out := make([]byte, 0, len(symbol))
	for i := 0; i < len(symbol); i++ {
		c := symbol[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
		}
	}
	return string(out)
}
