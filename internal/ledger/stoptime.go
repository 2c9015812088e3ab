package ledger

import (
	"fmt"
	"time"
)

// clockWidth is the length of a canonical HH:MM:SS string.
const clockWidth = 8

// NormalizeStopTime converts a raw stop_time value to its canonical text form.
//
//	nil            -> nil
//	time.Time      -> "15:04:05"
//	time.Duration  -> "HH:MM:SS", hours not wrapped at 24
//	string, []byte -> first 8 characters, unchanged otherwise
//	anything else  -> its printed form, first 8 characters
//
// Integer seconds count as "anything else", so 3661 becomes "3661".
func NormalizeStopTime(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return x.Format("15:04:05")
	case time.Duration:
		return FormatClock(x)
	case string:
		return truncate(x, clockWidth)
	case []byte:
		return truncate(string(x), clockWidth)
	default:
		return truncate(fmt.Sprint(x), clockWidth)
	}
}

// FormatClock renders d as HH:MM:SS with whole seconds. Hours grow past 24.
func FormatClock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, total/3600, total%3600/60, total%60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
