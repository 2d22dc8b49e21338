package writer

import (
	"io"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

func (implText) Ext() string { return ".txt" }

// WriteFile writes the title, then one paragraph per block.
func (implText) WriteFile(path, title string, res transcript.Result) error {
	return writeFile(path, func(w io.Writer) error {
		body := res.ProseText()
		if title != "" {
			body = title + "\n\n" + body
		}
		_, err := io.WriteString(w, body+"\n")
		return err
	})
}
