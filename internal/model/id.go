package model

import (
	"strings"

	"github.com/google/uuid"
)

// NewID 生成带业务前缀的不透明标识符，如 MEM_1A2B3C4D5E6F
// 随机 UUID 截取 12 位十六进制，避免基于时间戳派生的 ID 碰撞
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + strings.ToUpper(hex[:12])
}
