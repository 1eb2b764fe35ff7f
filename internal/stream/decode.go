package stream

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/llehouerou/go-mp3"
)

// pcmSource yields interleaved 16-bit little-endian stereo PCM.
type pcmSource interface {
	io.Reader
	SampleRate() int
}

// decodeFunc opens a decoder over an audio byte stream.
type decodeFunc func(r io.Reader) (pcmSource, error)

// decodeMP3 decodes MP3 with llehouerou/go-mp3. The reader is not seekable
// so the decoder reports no length.
func decodeMP3(r io.Reader) (pcmSource, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	if d.SampleRate() == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}
	return d, nil
}

// pcmToSamples converts whole 4-byte stereo frames from raw into out and
// returns the number of samples written.
func pcmToSamples(raw []byte, out [][2]float64) int {
	n := min(len(raw)/4, len(out))
	for i := range n {
		offset := i * 4
		left := int16(binary.LittleEndian.Uint16(raw[offset:]))    //nolint:gosec // audio samples
		right := int16(binary.LittleEndian.Uint16(raw[offset+2:])) //nolint:gosec // audio samples
		out[i][0] = float64(left) / 32768.0
		out[i][1] = float64(right) / 32768.0
	}
	return n
}
