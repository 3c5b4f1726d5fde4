package agbin

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DumpMode selects how much of a decoded capture the summary printer
// shows. It is always passed explicitly by the caller.
type DumpMode int

const (
	// DumpSummary prints the capture metadata and per-channel headlines.
	DumpSummary DumpMode = iota
	// DumpFull additionally previews the first samples of each channel.
	DumpFull
)

const dumpPreviewLen = 8

// DumpBINFile prints a human-readable summary of a decoded capture.
func DumpBINFile(w io.Writer, f *File, mode DumpMode) {
	desc := &f.Descriptor

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Capture contains %d channels\n", len(f.Channels))
	fmt.Fprintf(w, "\tModel:\t%s\n", desc.Model)
	fmt.Fprintf(w, "\tDate:\t%s\n", desc.Date)
	fmt.Fprintf(w, "\tTime:\t%s\n", desc.Time)
	fmt.Fprintf(w, "\tPoints:\t%d @ %s\n", desc.NPts, formatXIncrement(desc.XIncrement))
	if f.VersionWarning != "" {
		fmt.Fprintf(w, "\tWARNING: %s\n", f.VersionWarning)
	}

	t := f.TimeAxis()
	for chID := range f.Channels {
		ch := &f.Channels[chID]

		fmt.Fprintf(w, "Channel #%d\n", chID)
		fmt.Fprintf(w, "\tName:\t%s\n", ch.Name)
		fmt.Fprintf(w, "\tUnit:\t%s\n", ch.Unit)
		fmt.Fprintf(w, "\tSamples: %d\n", len(ch.Samples))

		if mode != DumpFull {
			continue
		}
		preview := len(ch.Samples)
		if preview > dumpPreviewLen {
			preview = dumpPreviewLen
		}
		for i := 0; i < preview; i++ {
			fmt.Fprintf(w, "\t\t#%d: t=%gs  %g\n", i, t[i], ch.Samples[i])
		}
	}
}

// formatXIncrement renders a sample interval with a sensible SI prefix.
func formatXIncrement(x float64) string {
	switch {
	case x < 1e-6:
		return fmt.Sprintf("%.3f ns", x/1e-9)
	case x < 1e-3:
		return fmt.Sprintf("%.3f us", x/1e-6)
	case x < 1.0:
		return fmt.Sprintf("%.3f ms", x/1e-3)
	}
	return fmt.Sprintf("%.3f s", x)
}

type yamlCapture struct {
	Model          string  `yaml:"model"`
	Date           string  `yaml:"date"`
	Time           string  `yaml:"time"`
	XIncrement     float64 `yaml:"x_increment"`
	XOrigin        float64 `yaml:"x_origin"`
	XRange         float32 `yaml:"x_range"`
	VersionWarning string  `yaml:"version_warning,omitempty"`

	Channels []yamlChannel `yaml:"channels"`
}

type yamlChannel struct {
	Name    string    `yaml:"name"`
	Unit    string    `yaml:"unit"`
	Samples []float32 `yaml:"samples"`
}

// WriteYaml writes the decoded capture as a YAML document.
func WriteYaml(fileName string, f *File) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", fileName)
	}
	defer file.Close()

	doc := yamlCapture{
		Model:          f.Descriptor.Model,
		Date:           f.Descriptor.Date,
		Time:           f.Descriptor.Time,
		XIncrement:     f.Descriptor.XIncrement,
		XOrigin:        f.Descriptor.XOrigin,
		XRange:         f.Descriptor.XRange,
		VersionWarning: f.VersionWarning,
		Channels:       make([]yamlChannel, len(f.Channels)),
	}
	for chID := range f.Channels {
		ch := &f.Channels[chID]
		doc.Channels[chID] = yamlChannel{
			Name:    ch.Name,
			Unit:    ch.Unit.String(),
			Samples: ch.Samples,
		}
	}

	enc := yaml.NewEncoder(file)
	if err := enc.Encode(&doc); err != nil {
		return errors.Wrap(err, "failed to encode yaml")
	}
	return enc.Close()
}

// WriteCsv writes the time axis and every channel as CSV columns, for
// plotting tools.
func WriteCsv(fileName string, f *File) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", fileName)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	header := make([]string, 0, len(f.Channels)+1)
	header = append(header, "time")
	for chID := range f.Channels {
		name := f.Channels[chID].Name
		if name == "" {
			name = fmt.Sprintf("channel%d", chID)
		}
		header = append(header, name)
	}
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}

	t := f.TimeAxis()
	row := make([]string, len(f.Channels)+1)
	for k := range t {
		row[0] = strconv.FormatFloat(t[k], 'g', -1, 64)
		for chID := range f.Channels {
			row[chID+1] = strconv.FormatFloat(float64(f.Channels[chID].Samples[k]), 'g', -1, 32)
		}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write csv row %d", k)
		}
	}

	w.Flush()
	return w.Error()
}
