package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logs", "app.log")

	closer, err := Init(Config{Level: "debug", Format: "json", File: file})
	require.NoError(t, err, "初始化日志失败")
	defer closer.Close()

	Info().Str("component", "test").Msg("hello")
	Std("[测试] ").Printf("来自标准库 %d", 42)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"component":"test"`)
	assert.Contains(t, content, "[测试] 来自标准库 42")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitDefaultsToInfo(t *testing.T) {
	closer, err := Init(Config{Level: "not-a-level"})
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestWithContext(t *testing.T) {
	ctx := WithContext(context.Background())
	l := Ctx(ctx)
	require.NotNil(t, l)
	assert.NotEqual(t, zerolog.Disabled, l.GetLevel(), "上下文中应取到全局 logger")
}
