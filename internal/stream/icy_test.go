package stream

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

// icyBlock encodes text as a metadata block with its length prefix.
func icyBlock(text string) []byte {
	size := (len(text) + 15) / 16
	block := make([]byte, 1+size*16)
	block[0] = byte(size)
	copy(block[1:], text)
	return block
}

// icyStream interleaves audio chunks of metaint bytes with blocks.
func icyStream(metaint int, chunks int, blocks ...[]byte) []byte {
	var buf bytes.Buffer
	for i := range chunks {
		buf.Write(bytes.Repeat([]byte{byte('a' + i%26)}, metaint))
		if i < len(blocks) {
			buf.Write(blocks[i])
		} else {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

func TestParseStreamTitle(t *testing.T) {
	tests := []struct {
		name   string
		block  string
		want   string
		wantOK bool
	}{
		{"simple", "StreamTitle='Artist - Track';", "Artist - Track", true},
		{"with url", "StreamTitle='A - B';StreamUrl='http://x';", "A - B", true},
		{"nul padded", "StreamTitle='A - B';\x00\x00\x00", "A - B", true},
		{"apostrophe", "StreamTitle='Guns N' Roses - Patience';", "Guns N' Roses - Patience", true},
		{"empty title", "StreamTitle='';", "", true},
		{"unterminated", "StreamTitle='A - B'", "A - B", true},
		{"no title", "StreamUrl='http://x';", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStreamTitle([]byte(tt.block))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parseStreamTitle(%q) = %q, %v, want %q, %v", tt.block, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseMetaint(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"16000", 16000},
		{" 8192 ", 8192},
		{"", 0},
		{"abc", 0},
		{"-5", 0},
	}
	for _, tt := range tests {
		if got := parseMetaint(tt.in); got != tt.want {
			t.Errorf("parseMetaint(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestICYReader_StripsMetadata(t *testing.T) {
	const metaint = 32
	data := icyStream(metaint, 4,
		icyBlock("StreamTitle='First';"),
		[]byte{0},
		icyBlock("StreamTitle='First';"),
		icyBlock("StreamTitle='Second';"),
	)

	var titles []string
	r := newICYReader(iotest.OneByteReader(bytes.NewReader(data)), metaint, func(s string) {
		titles = append(titles, s)
	})
	audio, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if len(audio) != 4*metaint {
		t.Fatalf("audio length = %d, want %d", len(audio), 4*metaint)
	}
	for i := range 4 {
		chunk := audio[i*metaint : (i+1)*metaint]
		if !bytes.Equal(chunk, bytes.Repeat([]byte{byte('a' + i)}, metaint)) {
			t.Errorf("chunk %d = %q, want only %q", i, chunk, 'a'+i)
		}
	}
	// Repeated titles are reported once.
	want := []string{"First", "Second"}
	if len(titles) != len(want) || titles[0] != want[0] || titles[1] != want[1] {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestICYReader_NoMetaint(t *testing.T) {
	src := bytes.NewReader([]byte("plain audio"))
	if r := newICYReader(src, 0, nil); r != io.Reader(src) {
		t.Error("reader wrapped without metaint")
	}
}

func TestICYReader_TruncatedBlock(t *testing.T) {
	const metaint = 8
	data := append(bytes.Repeat([]byte{'x'}, metaint), 2, 'S', 't')

	r := newICYReader(bytes.NewReader(data), metaint, nil)
	_, err := io.ReadAll(r)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadAll() error = %v, want ErrUnexpectedEOF", err)
	}
}
