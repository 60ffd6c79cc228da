// Package fixedstr provides a string value with a fixed inline byte capacity.
//
// A String never allocates: its bytes live in an array inside the value, so it
// can be copied, compared with == and stored in other values for free. Input
// longer than Capacity is cut at the last rune boundary that fits, so the
// stored content is always valid UTF-8.
//
//	s := fixedstr.New(r.Header.Get("X-Request-Id"))
//	fmt.Println(s.String())
package fixedstr

import "unicode/utf8"

// Capacity is the maximum number of bytes a String holds.
const Capacity = 64

// String is an immutable, UTF-8 safe string of at most Capacity bytes.
// The zero value is the empty string.
type String struct {
	buf [Capacity]byte
	n   uint8
}

// New copies the longest valid UTF-8 prefix of s that fits into Capacity bytes.
func New(s string) String {
	var fs String
	fs.n = uint8(copy(fs.buf[:], Truncate(s, Capacity)))
	return fs
}

// Truncate returns the longest prefix of s that is at most max bytes long,
// ends on a rune boundary and is valid UTF-8. Decoding stops at the first
// invalid byte sequence.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max && utf8.ValidString(s) {
		return s
	}

	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if n+size > max {
			break
		}
		n += size
	}
	return s[:n]
}

// String returns the stored content.
func (s String) String() string { return string(s.buf[:s.n]) }

// Len returns the stored length in bytes.
func (s String) Len() int { return int(s.n) }

// IsEmpty reports whether nothing is stored.
func (s String) IsEmpty() bool { return s.n == 0 }

// MarshalText implements encoding.TextMarshaler.
func (s String) MarshalText() ([]byte, error) {
	return append([]byte(nil), s.buf[:s.n]...), nil
}
