package service

import (
	"net/url"
	"strings"
)

// 扫码值规范化
//
// 物理二维码通常直接编码打卡码（如 QR_FAC_FINDLAY_BJJ），但部分制码工具
// 会把码塞进一个 URL：查询参数（qr / code / value）或路径末段。
// 解析顺序：qr > code > value > 路径末段；都取不到时原样返回。

// cleanScanValue 去除首尾空白与包裹引号
// 部分扫码枪会把扫描结果用引号包裹后回传
func cleanScanValue(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// extractScanCode 从清理后的扫码值中提取打卡码
func extractScanCode(raw string) string {
	v := cleanScanValue(raw)

	if !strings.Contains(v, "://") {
		return v
	}

	u, err := url.Parse(v)
	if err != nil {
		return v
	}

	query := u.Query()
	for _, key := range []string{"qr", "code", "value"} {
		if q := strings.TrimSpace(query.Get(key)); q != "" {
			return q
		}
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if last := segments[len(segments)-1]; last != "" {
		return last
	}

	return v
}
