package log

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestStatusEmoji(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "🟢"},
		{301, "🟡"},
		{404, "🟠"},
		{503, "🔴"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusEmoji(tt.status), "status %d", tt.status)
	}
}

func TestEmojiMap_GatewayTypes(t *testing.T) {
	for _, logType := range []string{"broker", "circuit", "dropped", "audit", "workflow", "stats"} {
		assert.NotEmpty(t, emojiMap[logType], "missing emoji for %s", logType)
	}
}

func encodeMessage(t *testing.T, level zapcore.Level, fields ...zapcore.Field) string {
	t.Helper()
	enc := NewEmojiConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	buf, err := enc.EncodeEntry(zapcore.Entry{Level: level, Message: "hello", Time: time.Now()}, fields)
	require.NoError(t, err)
	defer buf.Free()
	return buf.String()
}

func TestEmojiConsoleEncoder_Priority(t *testing.T) {
	out := encodeMessage(t, zapcore.InfoLevel, zap.Int("status", 500), zap.String("type", "circuit"))
	assert.True(t, strings.HasPrefix(out, "🔴 hello"), out)

	out = encodeMessage(t, zapcore.InfoLevel, zap.String("type", "circuit"))
	assert.True(t, strings.HasPrefix(out, "🔌 hello"), out)

	out = encodeMessage(t, zapcore.WarnLevel, zap.String("type", "unmapped"))
	assert.True(t, strings.HasPrefix(out, "⚠️ hello"), out)

	out = encodeMessage(t, zapcore.ErrorLevel)
	assert.True(t, strings.HasPrefix(out, "❌ hello"), out)
}

func TestEmojiConsoleEncoder_Clone(t *testing.T) {
	enc := NewEmojiConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	_, ok := enc.Clone().(*EmojiConsoleEncoder)
	assert.True(t, ok)
}
