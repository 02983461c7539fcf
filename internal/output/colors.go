package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// refColors is the palette used to tell branches apart
var refColors = [][]int{
	{76, 203, 241},  // Light blue
	{77, 202, 125},  // Green
	{110, 173, 38},  // Dark green
	{245, 200, 0},   // Yellow
	{248, 144, 72},  // Orange
	{244, 98, 81},   // Red
	{235, 130, 188}, // Pink
	{159, 131, 228}, // Purple
	{80, 132, 243},  // Blue
}

var (
	hashStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	addStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// refColor colors text with the palette entry for index
func refColor(text string, index int) string {
	c := refColors[index%len(refColors)]
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))).
		Render(text)
}
