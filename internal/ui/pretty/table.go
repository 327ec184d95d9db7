package pretty

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders headers and rows as a bordered lipgloss table. Columns listed
// in numeric are right-aligned. rowStyle, if non-nil, may override the style
// of a data row.
func (s *Styles) Table(headers []string, rows [][]string, numeric []int, rowStyle func(row int) *lipgloss.Style) string {
	right := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		right[col] = true
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.TableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := s.TableCell
			if row == table.HeaderRow {
				style = s.TableHeader
			} else if rowStyle != nil {
				if override := rowStyle(row); override != nil {
					style = s.TableCell.Inherit(*override)
				}
			}
			if right[col] {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	return t.String()
}
