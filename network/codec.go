package network

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Supported charsets.
const (
	CharsetUTF8   = "utf-8"
	CharsetLatin1 = "iso-8859-1"
)

// Codec converts between wire bytes and display text.
// Invalid or unencodable sequences are replaced, never rejected.
// A Codec is safe for concurrent use; each call gets its own transformer.
type Codec struct {
	charset string
	enc     encoding.Encoding
}

// NewCodec returns a codec for the named charset. An empty name selects UTF-8.
func NewCodec(charset string) (*Codec, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return &Codec{charset: CharsetUTF8, enc: unicode.UTF8}, nil
	case "iso-8859-1", "latin1", "latin-1":
		return &Codec{charset: CharsetLatin1, enc: charmap.ISO8859_1}, nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
}

// Charset returns the canonical charset name.
func (c *Codec) Charset() string {
	return c.charset
}

// Decode turns one received line into text.
func (c *Codec) Decode(p []byte) string {
	out, err := c.enc.NewDecoder().Bytes(p)
	if err != nil {
		// Decoders in use here replace rather than fail; keep the raw bytes
		// visible if that ever changes.
		return strings.ToValidUTF8(string(p), "\uFFFD")
	}
	return string(out)
}

// Encode turns user text into wire bytes.
func (c *Codec) Encode(s string) []byte {
	out, err := encoding.ReplaceUnsupported(c.enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
