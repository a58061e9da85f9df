package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TermSink renders charts as coloured block bars for the terminal.
type TermSink struct {
	mu     sync.Mutex
	next   int
	live   map[int]string
	Width  int
	Height int
	Title  lipgloss.Style
	Colors map[Kind]lipgloss.Color
}

func NewTermSink() *TermSink {
	return &TermSink{
		live:   map[int]string{},
		Width:  60,
		Height: 8,
		Title:  lipgloss.NewStyle().Bold(true),
		Colors: map[Kind]lipgloss.Color{
			Bar:           lipgloss.Color("39"),
			HorizontalBar: lipgloss.Color("204"),
		},
	}
}

type termHandle struct {
	s  *TermSink
	id int
}

func (h *termHandle) Dispose() {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	delete(h.s.live, h.id)
}

func (s *TermSink) Draw(c Chart) Handle {
	var body string
	if c.Kind == HorizontalBar {
		body = s.horizontal(c)
	} else {
		body = s.vertical(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.live[s.next] = s.Title.Render(c.Title) + "\n" + body
	return &termHandle{s: s, id: s.next}
}

// Live returns the number of undisposed renderings.
func (s *TermSink) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// View joins live renderings in draw order.
func (s *TermSink) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.live))
	for id := range s.live {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, s.live[id])
	}
	return strings.Join(parts, "\n\n")
}

func maxValue(c Chart) int {
	m := 1
	for _, p := range c.Points {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}

func (s *TermSink) horizontal(c Chart) string {
	labelW := 0
	for _, p := range c.Points {
		labelW = max(labelW, lipgloss.Width(p.Label))
	}
	labelW = min(labelW, 20)
	barW := max(s.Width-labelW-20, 5)
	m := maxValue(c)
	bar := lipgloss.NewStyle().Foreground(s.Colors[HorizontalBar])
	var b strings.Builder
	for _, p := range c.Points {
		n := int(math.Round(float64(barW) * float64(p.Value) / float64(m)))
		label := fit(p.Label, labelW)
		fmt.Fprintf(&b, "%s %s %d %s\n", label, bar.Render(strings.Repeat("█", n)), p.Value, p.Tooltip)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *TermSink) vertical(c Chart) string {
	if len(c.Points) == 0 {
		return ""
	}
	colW := max(s.Width/len(c.Points)-1, 3)
	colW = min(colW, 10)
	h := max(s.Height, 2)
	m := maxValue(c)
	bar := lipgloss.NewStyle().Foreground(s.Colors[Bar])
	heights := make([]int, len(c.Points))
	for i, p := range c.Points {
		heights[i] = int(math.Round(float64(h) * float64(p.Value) / float64(m)))
	}
	var b strings.Builder
	for level := h; level >= 1; level-- {
		for i := range c.Points {
			cell := strings.Repeat(" ", colW)
			if heights[i] >= level {
				cell = bar.Render(strings.Repeat("█", colW))
			}
			b.WriteString(cell + " ")
		}
		b.WriteString("\n")
	}
	for _, p := range c.Points {
		b.WriteString(fit(fmt.Sprintf("%d", p.Value), colW) + " ")
	}
	b.WriteString("\n")
	for _, p := range c.Points {
		b.WriteString(fit(p.Label, colW) + " ")
	}
	return b.String()
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	rs := []rune(s)
	if len(rs) > w {
		if w <= 1 {
			return string(rs[:w])
		}
		return string(rs[:w-1]) + "…"
	}
	return s + strings.Repeat(" ", w-len(rs))
}
