package transcript

import "testing"

func TestNormalizeText(t *testing.T) {
	n := NewNormalizer(DefaultOptions())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two-token stutter", "然后然后我们", "然后我们"},
		{"three-token stutter", "就是说就是说你看", "就是说你看"},
		{"single token three times", "我我我觉得", "我觉得"},
		{"reduplicated word kept", "谢谢大家", "谢谢大家"},
		{"filler twice", "嗯嗯好的", "嗯好的"},
		{"repeated comma", "好的，，我们走", "好的，我们走"},
		{"noise only", "(环境音)", ""},
		{"fullwidth noise only", "（音乐）", ""},
		{"noise inside text", "[音乐]你好【掌声】世界", "你好世界"},
		{"punctuation only", "，，。", ""},
		{"whitespace collapsed", "hello   world", "hello world"},
		{"latin word stutter", "the the the cat", "the cat"},
		{"latin pair kept", "that that", "that that"},
		{"space between han removed", "你好 世界", "你好世界"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.NormalizeText(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer(DefaultOptions())

	inputs := []string{
		"然后然后我们去了那里",
		"我我我我觉得这个这个方案不错",
		"嗯嗯，，好的好的",
		"[音乐] OK OK OK let's go",
		"哈哈哈哈",
		"今天 天气 很好。",
	}

	for _, in := range inputs {
		once := n.NormalizeText(in)
		twice := n.NormalizeText(once)
		if once != twice {
			t.Errorf("NormalizeText not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeKeepsTimestamps(t *testing.T) {
	n := NewNormalizer(DefaultOptions())

	got := n.Normalize(Segment{Text: "嗯嗯你好", StartMs: 120, EndMs: 980})
	if got.StartMs != 120 || got.EndMs != 980 {
		t.Errorf("Normalize() span = [%d, %d], want [120, 980]", got.StartMs, got.EndMs)
	}
	if got.Text != "嗯你好" {
		t.Errorf("Normalize() text = %q, want %q", got.Text, "嗯你好")
	}

	dropped := n.Normalize(Segment{Text: "[笑声]", StartMs: 0, EndMs: 10})
	if !dropped.Dropped() {
		t.Errorf("Normalize() of noise marker should be dropped, got %q", dropped.Text)
	}
}
