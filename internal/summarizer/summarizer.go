package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/zh-transcribe/internal/observe"
	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
	"github.com/nguyentantai21042004/zh-transcribe/internal/writer"
)

const indexName = "index.md"

// SummarizeAll summarizes each record's prose and writes <id>.md, <id>.docx
// and index.md into the configured output dir. A failed video does not stop
// the others; the returned error is only for output-dir problems.
func (s *implSummarizer) SummarizeAll(ctx context.Context, records []transcript.Record) (Report, error) {
	report := Report{Failed: make(map[string]error)}
	if len(records) == 0 {
		s.logger.Info(ctx, "No transcripts to summarize")
		return report, nil
	}

	if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return report, fmt.Errorf("create summary dir: %w", err)
	}

	s.logger.Info(ctx, "Summarizing %d transcripts with %s", len(records), s.cfg.Model)

	var done []string
	for i, rec := range records {
		if ctx.Err() != nil {
			report.Failed[rec.VideoID] = ctx.Err()
			continue
		}
		s.logger.Info(ctx, "[%d/%d] Summarizing: %s", i+1, len(records), rec.VideoID)

		files, err := s.summarizeOne(ctx, rec)
		s.metrics.RecordSummary(ctx, err)
		if err != nil {
			s.logger.Error(ctx, "Failed to summarize %s: %v", rec.VideoID, err)
			report.Failed[rec.VideoID] = err
			continue
		}
		report.Written = append(report.Written, files...)
		done = append(done, rec.VideoID)
		s.logger.Info(ctx, "[DONE] %s -> %s", rec.VideoID, files[0])
	}

	if len(done) > 0 {
		path := filepath.Join(s.cfg.OutputDir, indexName)
		if err := os.WriteFile(path, []byte(s.index(done)), 0644); err != nil {
			return report, fmt.Errorf("write index: %w", err)
		}
		report.Written = append(report.Written, path)
	}

	s.logger.Info(ctx, "Summary complete: %d success, %d failed", len(done), len(report.Failed))
	return report, nil
}

func (s *implSummarizer) summarizeOne(ctx context.Context, rec transcript.Record) (files []string, err error) {
	ctx, span := observe.StartSpan(ctx, "summarize")
	defer func() { observe.EndSpan(span, err) }()

	if strings.TrimSpace(rec.ProseText) == "" {
		return nil, fmt.Errorf("empty transcript")
	}

	summary, err := s.summarize(ctx, rec.ProseText)
	if err != nil {
		return nil, err
	}
	summary = strings.TrimSpace(summary)

	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n", rec.VideoID, s.now().Format("2006-01-02 15:04"), summary)
	mdPath := filepath.Join(s.cfg.OutputDir, rec.VideoID+".md")
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return nil, fmt.Errorf("write markdown: %w", err)
	}

	docxPath := filepath.Join(s.cfg.OutputDir, rec.VideoID+".docx")
	if err := writer.MarkdownToDOCX(rec.VideoID, summary, docxPath, s.style); err != nil {
		os.Remove(mdPath)
		return nil, fmt.Errorf("write docx: %w", err)
	}

	return []string{mdPath, docxPath}, nil
}

func (s *implSummarizer) index(ids []string) string {
	var sb strings.Builder
	sb.WriteString("# 视频总结索引\n\n")
	fmt.Fprintf(&sb, "_%s_\n\n", s.now().Format("2006-01-02 15:04"))
	for _, id := range ids {
		fmt.Fprintf(&sb, "- [%s](%s.md)\n", id, id)
	}
	return sb.String()
}
