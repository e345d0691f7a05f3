package layout

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MeasureFunc 返回文本在当前字体下的宽度（mm）。
type MeasureFunc func(s string) float64

// GreedyWrap 按宽度贪心折行：优先在空白处分割，单词超出限制时在词内拆分，显式换行始终保留。
// 软换行处的行首、行尾空白会被丢弃。
func GreedyWrap(content string, limit float64, measure MeasureFunc) []TextLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	tokens := tokenizeContent(content)
	var lines []TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		line := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		builder.Reset()
		currentWidth = 0
		if line == "" && !force {
			return
		}
		lines = append(lines, TextLine{Content: line, Width: measure(line)})
	}

	appendToken := func(token string, width float64) {
		builder.WriteString(token)
		currentWidth += width
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}
		if builder.Len() == 0 && isSpaceToken(token) {
			continue
		}

		tokenWidth := measure(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
			if isSpaceToken(token) {
				continue
			}
		}
		if tokenWidth <= limit {
			appendToken(token, tokenWidth)
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, measure) {
			chunkWidth := measure(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk, chunkWidth)
		}
	}

	emit(len(lines) == 0 || builder.Len() > 0)
	return lines
}

// WrapStrings 是 GreedyWrap 的便捷形式，只返回每行内容。
func WrapStrings(content string, limit float64, measure MeasureFunc) []string {
	lines := GreedyWrap(content, limit, measure)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

// EstimateWidth 在没有字体度量时按平均字宽估算文本宽度，CJK 字符按全角计。
func EstimateWidth(s string, font Font) float64 {
	size := font.Size
	if size <= 0 {
		size = 10
	}
	em := size * PtToMm
	width := 0.0
	for _, r := range s {
		switch {
		case r > unicode.MaxLatin1 && unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul):
			width += em
		case unicode.IsSpace(r):
			width += em * 0.28
		case unicode.IsUpper(r) || unicode.IsDigit(r):
			width += em * 0.6
		default:
			width += em * 0.5
		}
	}
	if font.Weight == WeightBold {
		width *= 1.06
	}
	return width
}

func isSpaceToken(token string) bool {
	return strings.TrimSpace(token) == ""
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, measure MeasureFunc) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if measure(builder.String()) > limit && utf8.RuneCountInString(builder.String()) > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
