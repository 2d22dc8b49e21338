package writer

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

const (
	defaultFont     = "宋体"
	defaultFontSize = 12
	titleSize       = 16
)

var (
	reHeading = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet  = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
)

func (implDOCX) Ext() string { return ".docx" }

// WriteFile writes a bold title followed by one document paragraph per
// prose paragraph.
func (d implDOCX) WriteFile(path, title string, res transcript.Result) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	if title != "" {
		d.style.addRun(doc.AddParagraph(""), title, true, titleSize)
	}
	for _, p := range res.Paragraphs {
		d.style.addRun(doc.AddParagraph(""), p.Text, false, d.style.FontSize)
	}

	return doc.SaveTo(path)
}

// MarkdownToDOCX converts the small markdown subset produced by the
// summarizer (headings, bullets, bold) into a styled docx file.
func MarkdownToDOCX(title, markdown, path string, style Style) error {
	if style.Font == "" {
		style.Font = defaultFont
	}
	if style.FontSize == 0 {
		style.FontSize = defaultFontSize
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	style.addRun(doc.AddParagraph(""), title, true, titleSize)

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}

		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			style.addRun(doc.AddParagraph(""), m[2], true, style.headingSize(len(m[1])))
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			style.addRichText(doc.AddParagraph(""), "• "+m[1])
			continue
		}
		style.addRichText(doc.AddParagraph(""), trimmed)
	}

	return doc.SaveTo(path)
}

func (s Style) headingSize(level int) uint64 {
	switch level {
	case 1:
		return titleSize
	case 2:
		return titleSize - 1
	case 3:
		return titleSize - 2
	default:
		return s.FontSize
	}
}

func (s Style) addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(s.Font).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans bold.
func (s Style) addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			s.addRun(p, part, false, s.FontSize)
		}
		if i < len(matches) {
			s.addRun(p, matches[i][1], true, s.FontSize)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
