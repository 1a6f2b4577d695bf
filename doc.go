// Package contentkit reads text out of byte streams and writes text into them.
//
// A [Source] takes ownership of an open [io.ReadCloser], reads it to the end,
// decodes every byte as one character and keeps the characters its [Filter]
// accepts. A [Sink] takes ownership of an open [io.WriteCloser], encodes a
// string and writes and flushes it. Both hold their stream until Close.
//
// # Basic Usage
//
//	f, err := os.Open("notes.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	src := contentkit.NewStreamSource(f, contentkit.WithFilter(contentkit.ASCIIOnly))
//	text, err := contentkit.RetrieveAndClose(ctx, src)
//
//	out, err := os.Create("notes.ascii.txt")
//	dst := contentkit.NewStreamSink(out)
//	err = contentkit.SaveAndClose(ctx, dst, text)
//
// # Filters
//
// [NoFilter] keeps everything, [ASCIIOnly] keeps code points below 0x80.
// Filters compose:
//
//	keep := contentkit.And(contentkit.ASCIIOnly, contentkit.Not(contentkit.Only("\r")))
//
// # Encoding
//
// Decoding is strictly one byte per character. The default charmap is
// ISO 8859-1, where byte b becomes code point b; [WithCharmap] selects another
// single-byte code page. Multi-byte encodings such as UTF-8 are not decoded:
// a UTF-8 "é" comes back as the two characters "Ã©". A Sink refuses to save a
// character its charmap cannot represent ([ErrUnencodable]).
//
// # Synchronized Decorators
//
// [SynchronizedSource] and [SynchronizedSink] serialize calls with a mutex and
// close the wrapped instance inside the call that uses it, so each decorator
// does its work once. Any later Retrieve, Save or Close fails with [ErrClosed]:
//
//	src := contentkit.NewSynchronizedSource(contentkit.NewStreamSource(f))
//	text, err := src.Retrieve(ctx) // f is closed here, success or not
//
// # Backends
//
// Opening streams is left to a [Backend]. Two are provided and register
// themselves when imported:
//
//   - Local filesystem (github.com/gobeaver/contentkit/driver/local)
//   - In-memory (github.com/gobeaver/contentkit/driver/memory)
//
// The [Kit] ties a backend to a configured filter, charmap and decorators:
//
//	import _ "github.com/gobeaver/contentkit/driver/local"
//
//	kit, err := contentkit.New(&contentkit.Config{
//	    Backend:       "local",
//	    LocalBasePath: "./content",
//	    Filter:        "ascii",
//	    Synchronized:  true,
//	})
//	text, err := kit.Retrieve(ctx, "in.txt")
//	err = kit.Copy(ctx, "in.txt", "out.txt")
//
// # Error Handling
//
// Failures are returned as [*ContentError] values that record the operation
// and wrap the cause:
//
//	_, err := src.Retrieve(ctx)
//	var cerr *contentkit.ContentError
//	if errors.As(err, &cerr) {
//	    fmt.Printf("Operation: %s\n", cerr.Op)
//	}
//	if contentkit.IsClosed(err) {
//	    // the stream was already released
//	}
//
// # Configuration
//
// A Kit can be configured via environment variables with the
// BEAVER_CONTENTKIT_ prefix ([GetConfig], [NewFromEnv]) or programmatically
// via the [Config] struct.
package contentkit
