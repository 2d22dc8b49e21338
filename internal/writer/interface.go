package writer

import "github.com/nguyentantai21042004/zh-transcribe/internal/transcript"

// Writer encodes an assembled transcript into one output format.
type Writer interface {
	// Ext is the file extension including the dot.
	Ext() string
	WriteFile(path, title string, res transcript.Result) error
}

// Style is the typography of generated documents.
type Style struct {
	Font     string
	FontSize uint64
}
