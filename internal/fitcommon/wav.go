package fitcommon

import (
	"fmt"
	"os"
	"path/filepath"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-parray/dsp"
	"github.com/cwbudde/algo-parray/signal"
)

// ReadWAVMono reads a WAV file, averages its channels down to mono, and
// peak-normalizes to [-1, 1] (the normalization the modulator expects from
// its callers).
func ReadWAVMono(path string) (*signal.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("invalid wav buffer: %s", path)
	}
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := signal.New(buf.Format.SampleRate, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out.Data[i] = sum / float64(ch)
	}
	dsp.NormalizePeak(out.Data)
	return out, nil
}

// ResampleIfNeeded brings a buffer to the target sample rate. Same-rate
// buffers are returned unchanged.
func ResampleIfNeeded(in *signal.Buffer, toRate int) (*signal.Buffer, error) {
	if in.SampleRate == toRate {
		return in, nil
	}
	r, err := dspresample.NewForRates(
		float64(in.SampleRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	return signal.FromSamples(toRate, r.Process(in.Data)), nil
}

// WriteMonoWAV writes a mono float buffer as a 16-bit WAV file, creating
// parent directories as needed.
func WriteMonoWAV(path string, buf *signal.Buffer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, buf.SampleRate, 16, 1, 1)
	defer enc.Close()

	data := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = float32(Clamp(v, -1.0, 1.0))
	}
	out := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  buf.SampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	return enc.Write(out)
}
