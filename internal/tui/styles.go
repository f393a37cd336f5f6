package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan, primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold, next level
	colorSuccess     = lipgloss.Color("#00E676") // Green, completed
	colorDanger      = lipgloss.Color("#FF5252") // Red, errors
	colorMuted       = lipgloss.Color("#636363") // Gray, locked/de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray, normal text
	colorWhite       = lipgloss.Color("#EEEEEE") // Off-white, primary text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white, emphatic text
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface, status bar bg
	colorSurfaceDim  = lipgloss.Color("#181825") // Darkest surface, footer bg
	colorBlue        = lipgloss.Color("#5B8DEF") // Blue, unlocked but not started
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

// Status icons for levels.
const (
	iconDone   = "✓"
	iconErrors = "✗"
	iconNext   = "◉"
	iconOpen   = "○"
	iconLocked = "·"
)

// Status bar styles.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStatusValue = lipgloss.NewStyle().
				Foreground(colorWhite)
)

// World list row styles.
var (
	styleWorldHeader = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleWorldLocked = lipgloss.NewStyle().
				Foreground(colorMuted)

	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleRowDone = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleRowNext = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleRowErrors = lipgloss.NewStyle().
			Foreground(colorDanger)

	styleRowOpen = lipgloss.NewStyle().
			Foreground(colorBlue)

	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Detail panel styles rounded border, styled title.
var (
	styleDetailBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)

	styleDetailTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleDetailDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleDetailSection = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	styleScrollIndicator = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)
)

// Footer styles top border, clear key/desc contrast.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)

// Message line styles.
var (
	styleInfo  = lipgloss.NewStyle().Foreground(colorMutedLight)
	styleError = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
)
