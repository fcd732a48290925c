package core

import "time"

// Clock 是"当前时间"的注入点。
//
// 定价特征包含星期/月份两个季节性维度，依赖当前时间；直接读墙钟会让
// 打分不可复现。生产默认 SystemClock，测试注入固定时间。
type Clock func() time.Time

// SystemClock 返回系统当前时间。
func SystemClock() time.Time {
	return time.Now()
}
