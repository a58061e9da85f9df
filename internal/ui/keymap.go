package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Search      tea.Key
	Status      tea.Key
	Domain      tea.Key
	Expr        tea.Key
	ClearFilter tea.Key
	Import      tea.Key
	Sort        tea.Key
	Refresh     tea.Key
	ViewRow     tea.Key
	EditRow     tea.Key
	DeleteRow   tea.Key
	Contacted   tea.Key
	Sources     tea.Key
	AppLogs     tea.Key
	Export      tea.Key
	Top         tea.Key
	Bottom      tea.Key
	Help        tea.Key
	Quit        tea.Key
	NextTab     tea.Key
	PrevTab     tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Status:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		Domain:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'d'}},
		Expr:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Import:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		Sort:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'o'}},
		Refresh:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		ViewRow:     tea.Key{Type: tea.KeyEnter},
		EditRow:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		DeleteRow:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		Contacted:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Sources:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'u'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Export:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'E'}},
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		NextTab:     tea.Key{Type: tea.KeyTab},
		PrevTab:     tea.Key{Type: tea.KeyShiftTab},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
