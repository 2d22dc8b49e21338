package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/zh-transcribe/internal/transcript"
)

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Transcript  TranscriptConfig  `yaml:"transcript"`
	Output      OutputConfig      `yaml:"output"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Gemini      GeminiConfig      `yaml:"gemini"`
}

const (
	BackendCLI    = "cli"
	BackendServer = "server"
)

type WhisperConfig struct {
	// Backend is "cli" (whisper.cpp binary) or "server" (whisper.cpp HTTP server).
	Backend    string `yaml:"backend"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	ServerURL  string `yaml:"server_url"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
	UseGPU     bool   `yaml:"use_gpu"`
}

type FFmpegConfig struct {
	BinaryPath   string `yaml:"binary_path"`
	SampleRate   int    `yaml:"sample_rate"`
	VideoBitrate string `yaml:"video_bitrate"`
	AudioCodec   string `yaml:"audio_codec"`
	Encoder      string `yaml:"encoder"`
	Preset       string `yaml:"preset"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// TranscriptConfig mirrors transcript.Options.
type TranscriptConfig struct {
	SentencePauseMs   int64    `yaml:"sentence_pause_ms"`
	ParagraphPauseMs  int64    `yaml:"paragraph_pause_ms"`
	MaxParagraphChars int      `yaml:"max_paragraph_chars"`
	MinParagraphChars int      `yaml:"min_paragraph_chars"`
	MaxLineChars      int      `yaml:"max_line_chars"`
	MinCueChars       int      `yaml:"min_cue_chars"`
	MaxRepeatTokens   int      `yaml:"max_repeat_tokens"`
	MinSingleRepeat   int      `yaml:"min_single_repeat"`
	Fillers           []string `yaml:"fillers"`
	SentenceMark      string   `yaml:"sentence_mark"`
	StrictSpans       bool     `yaml:"strict_spans"`
}

const (
	FormatDOCX = "docx"
	FormatSRT  = "srt"
	FormatVTT  = "vtt"
	FormatText = "txt"
)

type OutputConfig struct {
	Formats       []string `yaml:"formats"`
	Font          string   `yaml:"font"`
	FontSize      int      `yaml:"font_size"`
	BurnSubtitles bool     `yaml:"burn_subtitles"`
	Archive       bool     `yaml:"archive"`
}

type MetricsConfig struct {
	// Listen is the address serving /metrics; empty disables the endpoint.
	Listen      string `yaml:"listen"`
	ServiceName string `yaml:"service_name"`
}

type GeminiConfig struct {
	Model      string   `yaml:"model"`
	APIKeys    []string `yaml:"api_keys"`
	OutputDir  string   `yaml:"output_dir"`
	MaxRetries int      `yaml:"max_retries"`
}

// Enabled reports whether summaries can be generated.
func (g GeminiConfig) Enabled() bool {
	return len(g.APIKeys) > 0
}

// Load reads path, merges secrets from the environment (and .env when present)
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults, applies environment
// overrides and validates.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{Transcript: defaultTranscript()}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if keys := os.Getenv("GEMINI_API_KEYS"); keys != "" && len(c.Gemini.APIKeys) == 0 {
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Gemini.APIKeys = append(c.Gemini.APIKeys, k)
			}
		}
	}
	if url := os.Getenv("WHISPER_SERVER_URL"); url != "" {
		c.Whisper.ServerURL = url
	}
}

func (c *Config) Validate() error {
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = BackendCLI
	}
	switch c.Whisper.Backend {
	case BackendCLI:
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	case BackendServer:
		if c.Whisper.ServerURL == "" {
			return fmt.Errorf("whisper.server_url is required for the server backend")
		}
	default:
		return fmt.Errorf("whisper.backend %q is not one of cli, server", c.Whisper.Backend)
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Output.BurnSubtitles && c.FFmpeg.Encoder == "" {
		return fmt.Errorf("ffmpeg.encoder is required when output.burn_subtitles is set")
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = "zh"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.FFmpeg.VideoBitrate == "" {
		c.FFmpeg.VideoBitrate = "5M"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "copy"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "zh-transcribe"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.OutputDir == "" {
		c.Gemini.OutputDir = "summaries"
	}
	if c.Gemini.MaxRetries == 0 {
		c.Gemini.MaxRetries = 3
	}

	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{FormatDOCX, FormatSRT}
	}
	for _, f := range c.Output.Formats {
		switch f {
		case FormatDOCX, FormatSRT, FormatVTT, FormatText:
		default:
			return fmt.Errorf("output.formats: unknown format %q", f)
		}
	}
	if c.Output.BurnSubtitles && !c.Output.Has(FormatSRT) {
		return fmt.Errorf("output.burn_subtitles needs the srt format")
	}
	if c.Output.Font == "" {
		c.Output.Font = "宋体"
	}
	if c.Output.FontSize == 0 {
		c.Output.FontSize = 12
	}

	if c.Transcript.empty() {
		strict := c.Transcript.StrictSpans
		c.Transcript = defaultTranscript()
		c.Transcript.StrictSpans = strict
	}
	if err := c.Transcript.Options().Validate(); err != nil {
		return fmt.Errorf("transcript: %w", err)
	}

	return nil
}

// Has reports whether format is one of the configured outputs.
func (o OutputConfig) Has(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Options converts the section into assembler options.
func (t TranscriptConfig) Options() transcript.Options {
	return transcript.Options{
		SentencePauseMs:   t.SentencePauseMs,
		ParagraphPauseMs:  t.ParagraphPauseMs,
		MaxParagraphChars: t.MaxParagraphChars,
		MinParagraphChars: t.MinParagraphChars,
		MaxLineChars:      t.MaxLineChars,
		MinCueChars:       t.MinCueChars,
		MaxRepeatTokens:   t.MaxRepeatTokens,
		MinSingleRepeat:   t.MinSingleRepeat,
		Fillers:           t.Fillers,
		SentenceMark:      t.SentenceMark,
		StrictSpans:       t.StrictSpans,
	}
}

func (t TranscriptConfig) empty() bool {
	return t.SentencePauseMs == 0 && t.ParagraphPauseMs == 0 &&
		t.MaxParagraphChars == 0 && t.MaxLineChars == 0 &&
		t.MaxRepeatTokens == 0 && t.MinSingleRepeat == 0 &&
		len(t.Fillers) == 0 && t.SentenceMark == ""
}

func defaultTranscript() TranscriptConfig {
	o := transcript.DefaultOptions()
	return TranscriptConfig{
		SentencePauseMs:   o.SentencePauseMs,
		ParagraphPauseMs:  o.ParagraphPauseMs,
		MaxParagraphChars: o.MaxParagraphChars,
		MinParagraphChars: o.MinParagraphChars,
		MaxLineChars:      o.MaxLineChars,
		MinCueChars:       o.MinCueChars,
		MaxRepeatTokens:   o.MaxRepeatTokens,
		MinSingleRepeat:   o.MinSingleRepeat,
		Fillers:           o.Fillers,
		SentenceMark:      o.SentenceMark,
		StrictSpans:       o.StrictSpans,
	}
}
