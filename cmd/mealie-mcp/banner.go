package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	bannerSteamStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	bannerPotStyle     = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	bannerTitleStyle   = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	bannerTaglineStyle = lipgloss.NewStyle().Foreground(colorPrimaryDark).Italic(true)
)

// renderBanner draws a steaming pot with the product name.
func renderBanner() string {
	steam := bannerSteamStyle.Render("(  )  (  )")
	rim := bannerPotStyle.Render("_|________|_")
	body := bannerPotStyle.Render("|          |")
	base := bannerPotStyle.Render("\\__________/")
	title := bannerTitleStyle.Render("MEALIE MCP")
	tagline := bannerTaglineStyle.Render("recipes for your assistant")

	lines := []string{
		"   " + steam,
		"  " + rim + "   " + title,
		"  " + body + "   " + tagline,
		"  " + base,
	}
	return strings.Join(lines, "\n")
}
