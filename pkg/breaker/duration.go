package breaker

import (
	"fmt"
	"time"
)

// FormatDuration renders d as "<m>m <s>s" when it spans at least a minute and
// as "<s>s" otherwise. Zero and negative durations render as "0s".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	total := int64(d / time.Second)
	minutes := total / 60
	seconds := total % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
