package agbin

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// WriteBIN writes f in the capture file layout. Every channel block
// carries a full copy of the waveform header with its own name and unit
// code, matching how the instrument lays files out. The file size field
// is computed, not taken from f.
func WriteBIN(fileName string, f *File) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", fileName)
	}
	defer file.Close()

	desc := &f.Descriptor
	if desc.SubHeaderSize == 0 {
		desc.SubHeaderSize = wfmHeaderSize
	}
	if desc.BytesPerPoint == 0 {
		desc.BytesPerPoint = bytesPerSample
	}
	if desc.BufferSize == 0 {
		desc.BufferSize = uint64(desc.NPts) * uint64(desc.BytesPerPoint)
	}
	for i := range f.Channels {
		if len(f.Channels[i].Samples) != int(desc.NPts) {
			return fmt.Errorf("channel %d has %d samples, expected %d",
				i, len(f.Channels[i].Samples), desc.NPts)
		}
	}

	blockSize := int64(desc.SubHeaderSize) + bufHeaderSize + int64(desc.BufferSize)
	hdr := FileHeader{
		FileSize:   uint64(fileHeaderSize + blockSize*int64(len(f.Channels))),
		NWaveforms: uint32(len(f.Channels)),
	}
	copy(hdr.Signature[:], binSignature)
	hdr.Version = f.Header.Version
	if hdr.Version == [2]byte{} {
		hdr.Version = [2]byte{'1', binCompatDigit}
	}

	w := bufio.NewWriter(file)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return errors.Wrap(err, "failed to write file header")
	}

	for i := range f.Channels {
		ch := &f.Channels[i]

		wh := wfmHeader{
			HeaderSize:     wfmHeaderSize,
			WaveformType:   desc.WaveformType,
			NBuffers:       desc.NBuffers,
			NPts:           desc.NPts,
			Count:          desc.Count,
			XRange:         desc.XRange,
			XDisplayOrigin: desc.XDisplayOrigin,
			XIncrement:     desc.XIncrement,
			XOrigin:        desc.XOrigin,
			XUnits:         desc.XUnits,
			YUnits:         uint32(ch.Unit),
		}
		packField(wh.Date[:], desc.Date)
		packField(wh.Time[:], desc.Time)
		packField(wh.Model[:], desc.Model)
		packField(wh.ChannelName[:], ch.Name)

		if err := binary.Write(w, binary.LittleEndian, &wh); err != nil {
			return errors.Wrapf(err, "failed to write channel %d header", i)
		}

		bh := bufHeader{
			HeaderSize:    desc.SubHeaderSize,
			BufferType:    desc.BufferType,
			BytesPerPoint: desc.BytesPerPoint,
			BufferSize:    desc.BufferSize,
		}
		if err := binary.Write(w, binary.LittleEndian, &bh); err != nil {
			return errors.Wrapf(err, "failed to write channel %d buffer header", i)
		}

		if err := binary.Write(w, binary.LittleEndian, ch.Samples); err != nil {
			return errors.Wrapf(err, "failed to write channel %d samples", i)
		}
	}

	return w.Flush()
}

// packField stores s into a fixed-width file field, NUL-terminated and
// space-padded. Overlong values are cut to the field width.
func packField(dst []byte, s string) {
	padded := []byte(fmt.Sprintf("%-*s", len(dst), s))
	if len(s) < len(dst) {
		padded[len(s)] = 0
	}
	copy(dst, padded[:len(dst)])
}
