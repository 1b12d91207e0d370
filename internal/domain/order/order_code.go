package order

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// 订单号设计原则:
// 1. 全局唯一(数据库唯一索引兜底,冲突返回OrderCodeCollision由调用方重试)
// 2. 时间有序(前缀带UTC日期,便于归档和分库分表)
// 3. 不可预测(带随机段,防止恶意遍历)
//
// 格式:SO + UTC日期(YYYYMMDD) + 4位进程内序号 + 4位随机数
// 示例:SO2026083000171482
//
// 单靠6位随机数在同一天生成上万单时撞号概率不可忽视(生日问题),
// 所以序号段保证单进程内不重复,随机段保证多进程间大概率错开,
// 唯一索引兜住剩余的小概率冲突。
//
// 生产环境推荐:雪花算法(Snowflake)等分布式ID方案

var codeSeq uint64 // 进程内自增序号

// GenerateCode 生成订单号
func GenerateCode() string {
	now := time.Now().UTC()
	seq := atomic.AddUint64(&codeSeq, 1) % 10000
	random := rand.Intn(10000)
	return fmt.Sprintf("SO%s%04d%04d", now.Format("20060102"), seq, random)
}
