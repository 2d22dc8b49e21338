package writer

import "fmt"

type implSRT struct{}
type implVTT struct{}
type implText struct{}
type implDOCX struct {
	style Style
}

// New returns the writer for format: docx, srt, vtt or txt.
func New(format string, style Style) (Writer, error) {
	switch format {
	case "srt":
		return implSRT{}, nil
	case "vtt":
		return implVTT{}, nil
	case "txt":
		return implText{}, nil
	case "docx":
		if style.Font == "" {
			style.Font = defaultFont
		}
		if style.FontSize == 0 {
			style.FontSize = defaultFontSize
		}
		return implDOCX{style: style}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
