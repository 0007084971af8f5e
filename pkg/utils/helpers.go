package utils

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"
)

// TimePtr 零值返回 nil，便于写入可空列
func TimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// CalculateMD5 计算字节切片的 MD5，返回小写十六进制
func CalculateMD5(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// FileExt 小写扩展名，带点
func FileExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// CleanFilename 去掉客户端上传时可能带上的目录部分
func CleanFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
