package contentkit

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		algorithm ChecksumAlgorithm
		want      string
	}{
		{ChecksumMD5, "5d41402abc4b2a76b9719d911017c592"},
		{ChecksumSHA1, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{ChecksumSHA256, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{ChecksumCRC32, "3610a686"},
		{ChecksumXXHash, fmt.Sprintf("%016x", xxhash.Sum64String("hello"))},
	}

	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			got, err := CalculateChecksum(strings.NewReader("hello"), tt.algorithm)
			if err != nil {
				t.Fatalf("CalculateChecksum() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CalculateChecksum() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("sha512 length", func(t *testing.T) {
		got, err := CalculateChecksum(strings.NewReader("hello"), ChecksumSHA512)
		if err != nil {
			t.Fatalf("CalculateChecksum() error = %v", err)
		}
		if len(got) != 128 {
			t.Errorf("len(sha512) = %d, want 128", len(got))
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := CalculateChecksum(strings.NewReader("hello"), "whirlpool")
		if !errors.Is(err, ErrNotSupported) {
			t.Errorf("CalculateChecksum() error = %v, want ErrNotSupported", err)
		}
	})
}

type fixedChecksum struct {
	sum string
	err error
}

func (f fixedChecksum) Checksum() (string, error) { return f.sum, f.err }

func TestVerifyChecksum(t *testing.T) {
	ok, err := VerifyChecksum(fixedChecksum{sum: "abc"}, "abc")
	if err != nil || !ok {
		t.Errorf("VerifyChecksum(match) = %v, %v", ok, err)
	}

	ok, err = VerifyChecksum(fixedChecksum{sum: "abc"}, "abd")
	if err != nil || ok {
		t.Errorf("VerifyChecksum(mismatch) = %v, %v", ok, err)
	}

	_, err = VerifyChecksum(fixedChecksum{err: errBoom}, "abc")
	if !errors.Is(err, errBoom) {
		t.Errorf("VerifyChecksum(error) = %v, want errBoom", err)
	}
}
