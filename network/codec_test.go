package network

import (
	"bytes"
	"testing"
)

func TestCodecUTF8ReplacesInvalid(t *testing.T) {
	c, err := NewCodec("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Charset() != CharsetUTF8 {
		t.Errorf("default charset = %q", c.Charset())
	}

	if got := c.Decode([]byte("grüße")); got != "grüße" {
		t.Errorf("valid UTF-8 changed: %q", got)
	}
	if got := c.Decode([]byte{'a', 0xff, 'b'}); got != "a�b" {
		t.Errorf("invalid byte not replaced: %q", got)
	}
	if got := c.Encode("status"); !bytes.Equal(got, []byte("status")) {
		t.Errorf("Encode(status) = %q", got)
	}
}

func TestCodecLatin1(t *testing.T) {
	c, err := NewCodec("ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if c.Charset() != CharsetLatin1 {
		t.Errorf("charset = %q", c.Charset())
	}

	if got := c.Decode([]byte{'c', 'a', 'f', 0xe9}); got != "café" {
		t.Errorf("Decode = %q, want café", got)
	}
	if got := c.Encode("café"); !bytes.Equal(got, []byte{'c', 'a', 'f', 0xe9}) {
		t.Errorf("Encode = %v", got)
	}
	// The euro sign has no Latin-1 code point and is substituted.
	if got := c.Encode("€"); !bytes.Equal(got, []byte{0x1a}) {
		t.Errorf("Encode(€) = %v, want SUB", got)
	}
}

func TestCodecUnknownCharset(t *testing.T) {
	if _, err := NewCodec("ebcdic"); err == nil {
		t.Error("expected error for unsupported charset")
	}
}
