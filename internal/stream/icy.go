package stream

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ICY (SHOUTcast/Icecast) in-band metadata. When a client sends
// "Icy-MetaData: 1", the server interleaves a metadata block after every
// icy-metaint bytes of audio. A block is one length byte (in units of 16
// bytes) followed by NUL-padded text such as "StreamTitle='A - B';".

const (
	icyMetaintHeader = "Icy-Metaint"
	icyRequestHeader = "Icy-MetaData"
	streamTitleKey   = "StreamTitle='"
)

// icyReader strips metadata blocks from an ICY stream, handing each new
// stream title to onTitle.
type icyReader struct {
	r       io.Reader
	metaint int
	left    int
	onTitle func(string)
	last    string
}

// newICYReader wraps r. With metaint <= 0 the stream carries no metadata
// and r is returned unchanged.
func newICYReader(r io.Reader, metaint int, onTitle func(string)) io.Reader {
	if metaint <= 0 {
		return r
	}
	return &icyReader{r: r, metaint: metaint, left: metaint, onTitle: onTitle}
}

func (ic *icyReader) Read(p []byte) (int, error) {
	if ic.left == 0 {
		if err := ic.readMetadata(); err != nil {
			return 0, err
		}
		ic.left = ic.metaint
	}
	if len(p) > ic.left {
		p = p[:ic.left]
	}
	n, err := ic.r.Read(p)
	ic.left -= n
	return n, err
}

func (ic *icyReader) readMetadata() error {
	var size [1]byte
	if _, err := io.ReadFull(ic.r, size[:]); err != nil {
		return err
	}
	if size[0] == 0 {
		return nil
	}
	block := make([]byte, int(size[0])*16)
	if _, err := io.ReadFull(ic.r, block); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	title, ok := parseStreamTitle(block)
	if !ok || title == ic.last {
		return nil
	}
	ic.last = title
	if ic.onTitle != nil {
		ic.onTitle(title)
	}
	return nil
}

// parseStreamTitle extracts the StreamTitle value from a metadata block.
func parseStreamTitle(block []byte) (string, bool) {
	text := string(bytes.TrimRight(block, "\x00"))
	start := strings.Index(text, streamTitleKey)
	if start < 0 {
		return "", false
	}
	text = text[start+len(streamTitleKey):]
	if end := strings.Index(text, "';"); end >= 0 {
		return text[:end], true
	}
	if end := strings.LastIndexByte(text, '\''); end >= 0 {
		return text[:end], true
	}
	return text, true
}

// parseMetaint reads the icy-metaint response header; 0 when absent or
// invalid.
func parseMetaint(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
