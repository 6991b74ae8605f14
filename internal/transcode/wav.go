package transcode

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WAVHeader is the fixed 44-byte RIFF/WAVE header of a PCM file.
type WAVHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16 // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// ParseWAVHeader reads a WAV header from r. It validates the RIFF/WAVE
// magic but not chunk sizes, since ffmpeg writes unsized headers when the
// output is a pipe.
func ParseWAVHeader(r io.Reader) (*WAVHeader, error) {
	var h WAVHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read wav header: %w", err)
	}
	if string(h.ChunkID[:]) != "RIFF" || string(h.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("not a wav stream")
	}
	if string(h.Subchunk1ID[:]) != "fmt " {
		return nil, fmt.Errorf("unexpected wav chunk %q", h.Subchunk1ID)
	}
	return &h, nil
}

// IsCanonical reports whether the header describes the canonical storage
// format: 16-bit linear PCM, 16 kHz, mono.
func (h *WAVHeader) IsCanonical() bool {
	return h.AudioFormat == 1 &&
		h.NumChannels == 1 &&
		h.SampleRate == 16000 &&
		h.BitsPerSample == 16
}
