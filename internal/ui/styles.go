package ui

import (
	"github.com/charmbracelet/lipgloss"

	"crmdash/internal/view"
)

type Styles struct {
	Base        lipgloss.Style
	Status      lipgloss.Style
	Header      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Help        lipgloss.Style
	Card        lipgloss.Style
	CardValue   lipgloss.Style
	CardLabel   lipgloss.Style
	Notice      map[view.Level]lipgloss.Style
	TableStyles TableStyles
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
	// JSON
	JSONKey    lipgloss.Style
	JSONString lipgloss.Style
	JSONPunct  lipgloss.Style
}

type TableStyles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Mailto   lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
		s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")).Underline(true)
		s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(0, 1)
		s.CardValue = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.JSONKey = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
		s.JSONString = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
		s.JSONPunct = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Header = lipgloss.NewStyle().Bold(true)
		s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27")).Underline(true)
		s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
		s.CardValue = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.JSONKey = lipgloss.NewStyle().Foreground(lipgloss.Color("25"))
		s.JSONString = lipgloss.NewStyle().Foreground(lipgloss.Color("28"))
		s.JSONPunct = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	}
	s.CardLabel = s.Help
	s.Notice = map[view.Level]lipgloss.Style{
		view.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		view.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		view.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		view.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
	s.TableStyles = TableStyles{
		Header:   lipgloss.NewStyle().Bold(true),
		Cell:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
		Mailto:   lipgloss.NewStyle().Underline(true),
	}
	return s
}
