package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突(错误码1062)
// 本项目里会撞唯一索引的写入:
// - 商品SKU、分类名、仓库编码、用户邮箱(并发创建重复值)
// - 订单号(随机段碰撞,罕见,调用方可重试)
// - 库存快照行的(warehouse_id, product_id)主键(并发建零行,预期内,直接忽略)
// 各仓储负责把冲突翻译成自己领域的业务错误
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// GORM v2的哨兵错误
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兜底:直接匹配MySQL报错文本
	return strings.Contains(err.Error(), "Duplicate entry")
}
