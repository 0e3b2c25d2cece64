package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette shared by the line printers below and the browse view.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the person name in the browser.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders data values next to a label.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed  = lipgloss.NewStyle().Foreground(colorRed)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCount   = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// printStatus prints one "<icon> message" line.
func printStatus(icon string, format string, args ...any) {
	fmt.Println(icon + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	printStatus(styleOK.Render("✓"), format, args...)
}

func printError(format string, args ...any) {
	printStatus(styleFailed.Render("✗"), format, args...)
}

func printWarning(format string, args ...any) {
	printStatus(styleWarning.Render("!"), "%s", styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printStatus(lipgloss.NewStyle().Foreground(colorGray).Render("›"), format, args...)
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints layout statistics on one line, e.g.
// "12 persons · 4 generations · 0 crossings · cached".
func printStats(persons, generations, crossings int, cached bool) {
	sep := StyleDim.Render(" · ")
	parts := []string{
		plural(persons, "person"),
		plural(generations, "generation"),
		plural(crossings, "crossing"),
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, sep))
}

// plural renders "1 person" or "3 persons" with the count highlighted.
func plural(n int, word string) string {
	if n != 1 {
		word += "s"
	}
	return styleCount.Render(fmt.Sprint(n)) + " " + StyleDim.Render(word)
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
