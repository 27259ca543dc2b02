package utils

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration with its largest sensible unit,
// e.g. "45s", "30min", "12h", "3d".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Round(time.Second).Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dmin", int(d.Round(time.Minute).Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Round(time.Hour).Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Round(24*time.Hour).Hours()/24))
	}
}

// UnixTimestamp renders an instant as a Discord inline timestamp tag.
func UnixTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d>", t.Unix())
}

// ChunkString splits s into pieces of at most size bytes. Used to fit
// stack traces inside embed field limits.
func ChunkString(s string, size int) []string {
	if size <= 0 || s == "" {
		return []string{s}
	}
	var chunks []string
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}
	return append(chunks, s)
}

// CodeBlock wraps content in a fenced markdown block.
func CodeBlock(lang, content string) string {
	return "```" + lang + "\n" + content + "\n```"
}

// InlineCode wraps content in inline markdown code markers.
func InlineCode(content string) string {
	return "`" + content + "`"
}
