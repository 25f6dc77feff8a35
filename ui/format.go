package ui

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// FormatKB renders a kilobyte count with the largest unit that keeps it
// above one.
func FormatKB(kb uint64) string {
	switch {
	case kb >= 1024*1024:
		return fmt.Sprintf("%.1fG", float64(kb)/(1024*1024))
	case kb >= 1024:
		return fmt.Sprintf("%.1fM", float64(kb)/1024)
	default:
		return fmt.Sprintf("%dK", kb)
	}
}

// FormatCPU renders a usage percentage; values above 100 are kept.
func FormatCPU(pct float64) string {
	return fmt.Sprintf("%.1f", pct)
}

// FormatUptime renders d as "[Nd ]hh:mm:ss".
func FormatUptime(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	h := (total % 86400) / 3600
	m := (total % 3600) / 60
	s := total % 60
	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ellipsize shortens s to at most width runes, marking the cut with "...".
func ellipsize(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}
