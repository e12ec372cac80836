package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		fn    Func
		input string
		want  uint32
	}{
		{"djb2 hello", DJB2, "hello", 0x0f923099},
		{"djb2 world", DJB2, "world", 0x10a7356d},
		{"djb2 empty", DJB2, "", 0x00001505},
		{"djb2 abc", DJB2, "abc", 0x0b885c8b},
		{"sdbm hello", SDBM, "hello", 0x28d19932},
		{"sdbm empty", SDBM, "", 0x00000000},
		{"fnv1a hello", FNV1a, "hello", 0x4f9f2cab},
		{"fnv1a empty", FNV1a, "", 0x811c9dc5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fn([]byte(tt.input)))
		})
	}
}

func TestDeterminism(t *testing.T) {
	data := []byte("the same bytes, every time")
	for _, name := range Names() {
		fn, ok := ByName(name)
		require.True(t, ok)
		first := fn(data)
		for range 100 {
			assert.Equal(t, first, fn(data), "algorithm %s", name)
		}
	}
}

func TestRawBytesNotUnescaped(t *testing.T) {
	// The preprocessor hashes literal source bytes; a\"b is four
	// bytes including the backslash.
	assert.Equal(t, uint32(0x7c93cc66), DJB2([]byte(`a\"b`)))
	// Distinct from the unescaped three-byte form.
	assert.NotEqual(t, DJB2([]byte(`a\"b`)), DJB2([]byte(`a"b`)))
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		fn, ok := ByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, fn, name)
	}
	_, ok := ByName("md5")
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, DJB2([]byte("hello")), String(DJB2, "hello"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0x00000000", Format(0))
	assert.Equal(t, "0x0002b61d", Format(DJB2([]byte("x"))))
	assert.Equal(t, "0xffffffff", Format(0xffffffff))
	assert.Equal(t, "0x0f923099", Format(DJB2([]byte("hello"))))
}

func BenchmarkHash(b *testing.B) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	for _, name := range Names() {
		fn, _ := ByName(name)
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				fn(data)
			}
		})
	}
}
