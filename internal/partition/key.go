// Package partition derives the storage partition key that groups an event
// and its tickets.
package partition

import (
	"fmt"
	"strings"
	"time"
)

// FallbackPrefix 標題沒有可用字元時使用的前綴
const FallbackPrefix = "event_"

var reserved = map[string]struct{}{
	"tickets": {},
	"events":  {},
	"legacy":  {},
}

// KeyFromTitle 只保留 ASCII 英數字、平假名、片假名、CJK 統一漢字；
// 結果為空或撞到保留字時改用 event_<unix ms>
func KeyFromTitle(title string, now time.Time) string {
	key := strings.Map(func(r rune) rune {
		if isAllowed(r) {
			return r
		}
		return -1
	}, title)

	if key == "" || IsReserved(key) {
		return Fallback(now)
	}
	return key
}

func Fallback(now time.Time) string {
	return fmt.Sprintf("%s%d", FallbackPrefix, now.UnixMilli())
}

func IsReserved(key string) bool {
	_, ok := reserved[strings.ToLower(key)]
	return ok
}

func isAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r >= 0x3040 && r <= 0x309F: // Hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // Katakana
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	}
	return false
}
