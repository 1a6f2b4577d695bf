package contentkit

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestStreamSourceRetrieve(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		filter Filter
		want   string
	}{
		{
			name:   "ascii filter drops high byte",
			data:   []byte{0x41, 0xC3, 0x42},
			filter: ASCIIOnly,
			want:   "AB",
		},
		{
			name:   "no filter widens high byte",
			data:   []byte{0x41, 0xC3, 0x42},
			filter: NoFilter,
			want:   "AÃB",
		},
		{
			name:   "utf8 input is not decoded",
			data:   []byte("é"),
			filter: NoFilter,
			want:   "Ã©",
		},
		{
			name:   "empty stream",
			data:   nil,
			filter: ASCIIOnly,
			want:   "",
		},
		{
			name:   "everything filtered",
			data:   []byte{0x80, 0x90, 0xFF},
			filter: ASCIIOnly,
			want:   "",
		},
		{
			name:   "nil filter option keeps everything",
			data:   []byte("plain"),
			filter: nil,
			want:   "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTrackingReader(tt.data)
			src := NewStreamSource(r, WithFilter(tt.filter))

			got, err := src.Retrieve(context.Background())
			if err != nil {
				t.Fatalf("Retrieve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Retrieve() = %q, want %q", got, tt.want)
			}
			if n := r.closes.Load(); n != 0 {
				t.Errorf("Retrieve closed the stream %d times, want 0", n)
			}
		})
	}
}

func TestStreamSourceKeepsFilteredSubsequence(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	data := make([]byte, 3*readChunkSize+17)
	for i := range data {
		data[i] = byte(rng.IntN(256))
	}

	filters := map[string]Filter{
		"none":   NoFilter,
		"ascii":  ASCIIOnly,
		"vowels": Only("aeiouAEIOU"),
	}

	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			var want strings.Builder
			for _, b := range data {
				if filter.Accepts(rune(b)) {
					want.WriteRune(rune(b))
				}
			}

			got, err := NewStreamSource(newTrackingReader(data), WithFilter(filter)).Retrieve(context.Background())
			if err != nil {
				t.Fatalf("Retrieve() error = %v", err)
			}
			if got != want.String() {
				t.Errorf("Retrieve() returned %d bytes, want %d", len(got), want.Len())
			}
		})
	}
}

func TestStreamSourceReadError(t *testing.T) {
	r := newTrackingReader([]byte("partial"))
	r.err = errBoom
	src := NewStreamSource(r, WithName("input.txt"))

	got, err := src.Retrieve(context.Background())
	if got != "" {
		t.Errorf("Retrieve() = %q, want no partial content", got)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("Retrieve() error = %v, want errBoom", err)
	}

	var cerr *ContentError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ContentError, got %T", err)
	}
	if cerr.Op != "read" || cerr.Name != "input.txt" {
		t.Errorf("ContentError = %+v, want Op read on input.txt", cerr)
	}
	if r.closes.Load() != 0 {
		t.Error("Retrieve must leave closing to the caller")
	}
}

func TestStreamSourceClose(t *testing.T) {
	r := newTrackingReader([]byte("data"))
	src := NewStreamSource(r)

	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := src.Close(); !IsClosed(err) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
	if n := r.closes.Load(); n != 1 {
		t.Errorf("stream closed %d times, want 1", n)
	}

	if _, err := src.Retrieve(context.Background()); !IsClosed(err) {
		t.Errorf("Retrieve() after Close error = %v, want ErrClosed", err)
	}
}

func TestStreamSourceCloseError(t *testing.T) {
	r := newTrackingReader(nil)
	r.closeErr = errBoom
	src := NewStreamSource(r)

	err := src.Close()
	if !errors.Is(err, errBoom) {
		t.Fatalf("Close() error = %v, want errBoom", err)
	}
	var cerr *ContentError
	if !errors.As(err, &cerr) || cerr.Op != "close" {
		t.Errorf("Close() error = %v, want Op close", err)
	}
}

func TestStreamSourceContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStreamSource(newTrackingReader([]byte("data"))).Retrieve(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retrieve() error = %v, want context.Canceled", err)
	}
}

func TestStreamSourceCharmap(t *testing.T) {
	src := NewStreamSource(newTrackingReader([]byte{0x80, 'x'}), WithCharmap(charmap.Windows1252))

	got, err := src.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if got != "€x" {
		t.Errorf("Retrieve() = %q, want %q", got, "€x")
	}
}

func TestStreamSourceChecksum(t *testing.T) {
	data := []byte{0x41, 0xC3, 0x42}
	src := NewStreamSource(newTrackingReader(data), WithFilter(ASCIIOnly), WithChecksum(ChecksumSHA256))

	if _, err := src.Retrieve(context.Background()); err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	want, err := CalculateChecksum(bytes.NewReader(data), ChecksumSHA256)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	ok, err := VerifyChecksum(src, want)
	if err != nil {
		t.Fatalf("VerifyChecksum() error = %v", err)
	}
	if !ok {
		t.Error("checksum should cover the raw bytes, before filtering")
	}

	t.Run("disabled", func(t *testing.T) {
		_, err := NewStreamSource(newTrackingReader(nil)).Checksum()
		if !errors.Is(err, ErrNotSupported) {
			t.Errorf("Checksum() error = %v, want ErrNotSupported", err)
		}
	})

	t.Run("failed retrieve covers no bytes", func(t *testing.T) {
		r := newTrackingReader([]byte("partial"))
		r.err = errBoom
		src := NewStreamSource(r, WithChecksum(ChecksumSHA256))
		if _, err := src.Retrieve(context.Background()); !errors.Is(err, errBoom) {
			t.Fatalf("Retrieve() error = %v, want errBoom", err)
		}

		empty, err := CalculateChecksum(bytes.NewReader(nil), ChecksumSHA256)
		if err != nil {
			t.Fatalf("CalculateChecksum() error = %v", err)
		}
		got, err := src.Checksum()
		if err != nil {
			t.Fatalf("Checksum() error = %v", err)
		}
		if got != empty {
			t.Errorf("Checksum() = %s, want the empty-input sum %s", got, empty)
		}
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := NewStreamSource(newTrackingReader(nil), WithChecksum("blake9")).Checksum()
		if !errors.Is(err, ErrNotSupported) {
			t.Errorf("Checksum() error = %v, want ErrNotSupported", err)
		}
	})
}

func TestRetrieveAndClose(t *testing.T) {
	t.Run("closes after success", func(t *testing.T) {
		r := newTrackingReader([]byte("hello"))
		got, err := RetrieveAndClose(context.Background(), NewStreamSource(r))
		if err != nil {
			t.Fatalf("RetrieveAndClose() error = %v", err)
		}
		if got != "hello" {
			t.Errorf("RetrieveAndClose() = %q, want %q", got, "hello")
		}
		if n := r.closes.Load(); n != 1 {
			t.Errorf("stream closed %d times, want 1", n)
		}
	})

	t.Run("closes after failure", func(t *testing.T) {
		r := newTrackingReader([]byte("hello"))
		r.err = errBoom
		got, err := RetrieveAndClose(context.Background(), NewStreamSource(r))
		if !errors.Is(err, errBoom) || got != "" {
			t.Fatalf("RetrieveAndClose() = %q, %v; want empty and errBoom", got, err)
		}
		if n := r.closes.Load(); n != 1 {
			t.Errorf("stream closed %d times, want 1", n)
		}
	})

	t.Run("close failure fails the call", func(t *testing.T) {
		r := newTrackingReader([]byte("hello"))
		r.closeErr = errBoom
		got, err := RetrieveAndClose(context.Background(), NewStreamSource(r))
		if !errors.Is(err, errBoom) || got != "" {
			t.Fatalf("RetrieveAndClose() = %q, %v; want empty and errBoom", got, err)
		}
	})
}
