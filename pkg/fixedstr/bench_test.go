package fixedstr_test

import (
	"strings"
	"testing"

	"github.com/shashiranjanraj/reqscope/pkg/fixedstr"
)

// heapString is the growable alternative: the truncated prefix is cloned onto
// the heap so it does not pin the caller's buffer.
func heapString(s string) string {
	return strings.Clone(fixedstr.Truncate(s, fixedstr.Capacity))
}

var sink string

func benchmarkStrategies(b *testing.B, in, want string) {
	b.Run("inline", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			s := fixedstr.New(in)
			if s.Len() != len(want) {
				b.Fatalf("got %d bytes, want %d", s.Len(), len(want))
			}
		}
	})
	b.Run("heap", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			sink = heapString(in)
			if sink != want {
				b.Fatalf("got %q, want %q", sink, want)
			}
		}
	})
}

func BenchmarkTruncateLong(b *testing.B) {
	benchmarkStrategies(b, longStr, longExpected)
}

func BenchmarkTruncateEmoji(b *testing.B) {
	benchmarkStrategies(b, emojiStr, emojiExpected)
}

func BenchmarkShortUUID(b *testing.B) {
	benchmarkStrategies(b, uuidStr, uuidStr)
}
