package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

// FormatTimestamp renders ms as HH:MM:SS,mmm.
func FormatTimestamp(ms int64) string {
	return formatTimestamp(ms, ',')
}

// FormatVTTTimestamp renders ms as HH:MM:SS.mmm.
func FormatVTTTimestamp(ms int64) string {
	return formatTimestamp(ms, '.')
}

func formatTimestamp(ms int64, sep byte) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, ms%1000)
}

// EncodeSRT writes cues in SubRip format.
func EncodeSRT(w io.Writer, cues []transcript.Cue) error {
	bw := bufio.NewWriter(w)
	for _, c := range cues {
		fmt.Fprintf(bw, "%d\n%s --> %s\n", c.Index, FormatTimestamp(c.StartMs), FormatTimestamp(c.EndMs))
		for _, line := range c.Lines {
			fmt.Fprintln(bw, line)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// EncodeVTT writes cues in WebVTT format.
func EncodeVTT(w io.Writer, cues []transcript.Cue) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "WEBVTT\n\n")
	for _, c := range cues {
		fmt.Fprintf(bw, "%d\n%s --> %s\n", c.Index, FormatVTTTimestamp(c.StartMs), FormatVTTTimestamp(c.EndMs))
		for _, line := range c.Lines {
			fmt.Fprintln(bw, line)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func (implSRT) Ext() string { return ".srt" }

func (implSRT) WriteFile(path, _ string, res transcript.Result) error {
	return writeFile(path, func(w io.Writer) error { return EncodeSRT(w, res.Cues) })
}

func (implVTT) Ext() string { return ".vtt" }

func (implVTT) WriteFile(path, _ string, res transcript.Result) error {
	return writeFile(path, func(w io.Writer) error { return EncodeVTT(w, res.Cues) })
}

// writeFile creates path and removes it again if encode fails.
func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
