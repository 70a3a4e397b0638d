package render

import (
	"fmt"
	"strings"
)

// cluster is a run of either plain text or a single emoji sequence.
// For emoji, code is the Twemoji asset name: the cluster's code points
// in lowercase hex joined by '-', with variation selectors dropped.
type cluster struct {
	text string
	code string
}

const (
	runeZWJ      = 0x200D
	runeVS16     = 0xFE0F
	runeKeycap   = 0x20E3
	skinToneLo   = 0x1F3FB
	skinToneHi   = 0x1F3FF
	regionalLo   = 0x1F1E6
	regionalHi   = 0x1F1FF
)

// emojiRanges covers the blocks Twemoji has assets for. Deliberately
// excludes most of Miscellaneous Technical (U+2300..) so symbols like
// the diameter sign stay plain text.
var emojiRanges = [][2]rune{
	{0x231A, 0x231B}, // watch, hourglass
	{0x23E9, 0x23F3},
	{0x23F8, 0x23FA},
	{0x2600, 0x27BF}, // misc symbols, dingbats
	{0x2B00, 0x2B5F},
	{regionalLo, regionalHi},
	{0x1F000, 0x1F0FF},
	{0x1F300, 0x1F5FF},
	{0x1F600, 0x1F64F},
	{0x1F680, 0x1F6FF},
	{0x1F780, 0x1F7FF},
	{0x1F900, 0x1F9FF},
	{0x1FA70, 0x1FAFF},
}

func isEmojiBase(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

func isEmojiJoiner(r rune) bool {
	return r == runeZWJ || r == runeVS16 || r == runeKeycap ||
		(r >= skinToneLo && r <= skinToneHi)
}

// splitClusters segments a label into plain-text runs and emoji
// clusters. ZWJ sequences, skin-tone modifiers, keycaps and flag pairs
// stay within one cluster.
func splitClusters(label string) []cluster {
	runes := []rune(label)
	var out []cluster
	var text []rune

	flushText := func() {
		if len(text) > 0 {
			out = append(out, cluster{text: string(text)})
			text = nil
		}
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		if !isEmojiBase(r) {
			text = append(text, r)
			i++
			continue
		}
		flushText()

		seq := []rune{r}
		i++
		if r >= regionalLo && r <= regionalHi && i < len(runes) &&
			runes[i] >= regionalLo && runes[i] <= regionalHi {
			// flag: exactly two regional indicators
			seq = append(seq, runes[i])
			i++
		} else {
			for i < len(runes) {
				if isEmojiJoiner(runes[i]) {
					if runes[i] == runeZWJ {
						if i+1 < len(runes) && isEmojiBase(runes[i+1]) {
							seq = append(seq, runes[i], runes[i+1])
							i += 2
							continue
						}
						break
					}
					seq = append(seq, runes[i])
					i++
					continue
				}
				break
			}
		}
		out = append(out, cluster{text: string(seq), code: twemojiCode(seq)})
	}
	flushText()
	return out
}

// twemojiCode builds the Twemoji asset name for an emoji sequence.
func twemojiCode(seq []rune) string {
	parts := make([]string, 0, len(seq))
	for _, r := range seq {
		if r == runeVS16 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, "-")
}
