package audio

import (
	"bytes"
	"encoding/binary"
)

const (
	wavFormatIEEEFloat = 3
	wavBitsPerSample   = 32
	wavFmtChunkSize    = 18 // base fmt fields + cbSize, per the float/fact layout
	wavFactChunkSize   = 4
)

// EncodeWAV writes mono IEEE-float32 samples as a RIFF/WAVE buffer with
// the mandatory fact chunk that non-PCM formats require. This is an
// expansion of the 16-bit PCM writer this package started from: chunker
// output is float32, so cloud transcribe providers need a float
// container rather than a fixed-point one.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	dataSize := len(samples) * 4
	blockAlign := wavBitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := new(bytes.Buffer)

	buf.WriteString("RIFF")
	riffSize := 4 + (8 + wavFmtChunkSize) + (8 + wavFactChunkSize) + (8 + dataSize)
	binary.Write(buf, binary.LittleEndian, uint32(riffSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(wavFmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(wavFormatIEEEFloat))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(wavBitsPerSample))
	binary.Write(buf, binary.LittleEndian, uint16(0)) // cbSize

	buf.WriteString("fact")
	binary.Write(buf, binary.LittleEndian, uint32(wavFactChunkSize))
	binary.Write(buf, binary.LittleEndian, uint32(len(samples)))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}

	return buf.Bytes()
}

// EncodePCM16 converts float32 samples in [-1, 1] to little-endian
// signed 16-bit PCM, for providers that accept raw audio/l16 payloads
// rather than a WAV container.
func EncodePCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}
