package agbin

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/komkom/toml"
	"github.com/pkg/errors"
)

type tomlCapture struct {
	Model      string
	Date       string
	Time       string
	XIncrement float64 `json:"x_increment"`
	XOrigin    float64 `json:"x_origin"`
	XRange     float64 `json:"x_range"`
	Channels   []tomlChannel
}

type tomlChannel struct {
	Name    string
	Unit    string
	Samples []float64
}

// ParseTomlFile builds a capture from a TOML description, ready to be
// written with WriteBIN. Every channel must carry the same number of
// samples.
func ParseTomlFile(fileName string) (*File, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", fileName)
	}
	defer file.Close()

	decoder := json.NewDecoder(toml.New(file))

	c := tomlCapture{}
	if err := decoder.Decode(&c); err != nil {
		return nil, errors.Wrap(err, "failed to decode toml file")
	}

	if len(c.Channels) == 0 {
		return nil, fmt.Errorf("capture description has no channels")
	}
	if c.XIncrement <= 0 {
		return nil, fmt.Errorf("x_increment must be positive, got %g", c.XIncrement)
	}
	nPts := len(c.Channels[0].Samples)
	if nPts == 0 {
		return nil, fmt.Errorf("channel %q has no samples", c.Channels[0].Name)
	}

	f := &File{
		Descriptor: CaptureDescriptor{
			HeaderSize:     wfmHeaderSize,
			WaveformType:   1,
			NBuffers:       1,
			NPts:           uint32(nPts),
			Count:          1,
			XRange:         float32(c.XRange),
			XDisplayOrigin: c.XOrigin,
			XIncrement:     c.XIncrement,
			XOrigin:        c.XOrigin,
			XUnits:         uint32(UnitSeconds),
			Date:           c.Date,
			Time:           c.Time,
			Model:          c.Model,
			SubHeaderSize:  wfmHeaderSize,
			BytesPerPoint:  bytesPerSample,
			BufferSize:     uint64(nPts) * bytesPerSample,
		},
		Channels: make([]ChannelRecord, len(c.Channels)),
	}

	for chID, src := range c.Channels {
		if len(src.Samples) != nPts {
			return nil, fmt.Errorf("channel %q has %d samples, channel %q has %d",
				src.Name, len(src.Samples), c.Channels[0].Name, nPts)
		}

		unit, ok := unmapUnit(src.Unit)
		if !ok {
			return nil, fmt.Errorf("channel %q: unknown unit %q", src.Name, src.Unit)
		}

		samples := make([]float32, nPts)
		for i, v := range src.Samples {
			samples[i] = float32(v)
		}

		f.Channels[chID] = ChannelRecord{
			Unit:    unit,
			Name:    src.Name,
			Samples: samples,
		}
	}

	f.Descriptor.YUnits = uint32(f.Channels[0].Unit)

	return f, nil
}

// WriteToml writes a decoded capture back out as a TOML description.
// The output round-trips through ParseTomlFile.
func WriteToml(fileName string, f *File) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", fileName)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "model = %q\n", f.Descriptor.Model)
	fmt.Fprintf(writer, "date = %q\n", f.Descriptor.Date)
	fmt.Fprintf(writer, "time = %q\n", f.Descriptor.Time)
	fmt.Fprintf(writer, "x_increment = %g\n", f.Descriptor.XIncrement)
	fmt.Fprintf(writer, "x_origin = %g\n", f.Descriptor.XOrigin)
	fmt.Fprintf(writer, "x_range = %g\n", f.Descriptor.XRange)

	for chID := range f.Channels {
		ch := &f.Channels[chID]

		fmt.Fprintf(writer, "\n[[channels]]\n")
		fmt.Fprintf(writer, "name = %q\n", ch.Name)
		fmt.Fprintf(writer, "unit = %q\n", ch.Unit)
		fmt.Fprintf(writer, "samples = [\n")
		for _, v := range ch.Samples {
			fmt.Fprintf(writer, "\t%g,\n", v)
		}
		fmt.Fprintf(writer, "]\n")
	}

	return writer.Flush()
}
