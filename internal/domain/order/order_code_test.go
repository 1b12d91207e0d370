package order

import (
	"strings"
	"testing"
	"time"
)

// TestGenerateCode_Format 订单号格式: SO + UTC日期 + 8位数字
func TestGenerateCode_Format(t *testing.T) {
	code := GenerateCode()

	if !strings.HasPrefix(code, "SO") {
		t.Errorf("订单号应以SO开头: %s", code)
	}
	if len(code) != 2+8+8 {
		t.Errorf("订单号长度期望18，实际%d: %s", len(code), code)
	}

	wantDate := time.Now().UTC().Format("20060102")
	if code[2:10] != wantDate {
		t.Errorf("日期段期望%s，实际%s", wantDate, code[2:10])
	}
}

// TestGenerateCode_Unique 同一天内连续生成10000个订单号必须全部唯一
// 序号段保证单进程内不重复,这是唯一索引之前的第一道防线
func TestGenerateCode_Unique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)

	for i := 0; i < n; i++ {
		code := GenerateCode()
		if _, dup := seen[code]; dup {
			t.Fatalf("第%d次生成出现重复订单号: %s", i, code)
		}
		seen[code] = struct{}{}
	}
}
