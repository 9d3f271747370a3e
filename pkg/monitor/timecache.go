// 文件: pkg/monitor/timecache.go
// 时间缓存: hourOfDay/dayOfWeek/isWeekend 每 60s 最多刷新一次

package monitor

import "time"

func (m *Monitor) refreshTimeCache(nowMs int64) {
	if m.timeCacheRefreshedAt != 0 && nowMs-m.timeCacheRefreshedAt < m.cfg.TimeCacheDurationMs {
		return
	}
	t := time.UnixMilli(nowMs).UTC()
	m.hourOfDay = t.Hour()
	m.dayOfWeek = int(t.Weekday())
	m.isWeekend = t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
	m.timeCacheRefreshedAt = nowMs
}
