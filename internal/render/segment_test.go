package render

import (
	"reflect"
	"testing"
)

func TestSplitClusters(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  []cluster
	}{
		{
			"plain text",
			"200x200mm",
			[]cluster{{text: "200x200mm"}},
		},
		{
			"diameter sign stays text",
			"⌀1,0mm",
			[]cluster{{text: "⌀1,0mm"}},
		},
		{
			"single emoji",
			"📏",
			[]cluster{{text: "📏", code: "1f4cf"}},
		},
		{
			"emoji between text",
			"📏 200x200mm",
			[]cluster{
				{text: "📏", code: "1f4cf"},
				{text: " 200x200mm"},
			},
		},
		{
			"variation selector dropped from code",
			"❤️",
			[]cluster{{text: "❤️", code: "2764"}},
		},
		{
			"flag pair",
			"🇩🇪",
			[]cluster{{text: "🇩🇪", code: "1f1e9-1f1ea"}},
		},
		{
			"zwj sequence",
			"👩‍💻",
			[]cluster{{text: "👩‍💻", code: "1f469-200d-1f4bb"}},
		},
		{
			"skin tone modifier",
			"👍🏽",
			[]cluster{{text: "👍🏽", code: "1f44d-1f3fd"}},
		},
		{
			"two adjacent emoji are separate clusters",
			"😀😀",
			[]cluster{
				{text: "😀", code: "1f600"},
				{text: "😀", code: "1f600"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitClusters(tt.label)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitClusters(%q) = %+v, want %+v", tt.label, got, tt.want)
			}
		})
	}
}

func TestIsEmojiBase(t *testing.T) {
	emoji := []rune{'📏', '😀', '❤', '🇩', '🟢'}
	for _, r := range emoji {
		if !isEmojiBase(r) {
			t.Errorf("isEmojiBase(%q) = false, want true", r)
		}
	}
	text := []rune{'a', '0', 'ä', '⌀', ' ', '-'}
	for _, r := range text {
		if isEmojiBase(r) {
			t.Errorf("isEmojiBase(%q) = true, want false", r)
		}
	}
}
