package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/joeblew999/plat-toolbar/internal/glyph"
)

var (
	colorCyan = lipgloss.Color("36")  // Teal - keys
	colorGray = lipgloss.Color("245") // Gray - headers
	colorDim  = lipgloss.Color("240") // Dim gray - borders, calm barbs
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey    = lipgloss.NewStyle().Foreground(colorCyan)
	styleCalm   = lipgloss.NewStyle().Foreground(colorDim)
)

// barbTable renders the wind barb bucket for every step of speeds from 0
// up to limit.
func barbTable(limit, step float64) string {
	var rows [][]string
	for mps := 0.0; mps <= limit; mps += step {
		rows = append(rows, []string{fmt.Sprintf("%.1f", mps), glyph.WindBarbKey(mps)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("m/s", "Barb").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 1 && row < len(rows) {
				if rows[row][1] == glyph.CalmKey {
					return styleCalm
				}
				return styleKey
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
