package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rules lists the house rules, one per line
var Rules = []string{
	"Get as close to 21 as you can without going over.",
	"Face cards (J, Q, K) are worth 10.",
	"An ace is worth 11, or 1 if 11 would take the hand over 21.",
	"Number cards are worth their face value.",
	"Hit to take another card.",
	"Stand to end your turn and let the dealer play.",
	"The dealer draws below 17 and stands on any 17, soft or hard.",
	"Go over 21 and you bust and lose, whatever the dealer holds.",
	"Otherwise the hand closest to 21 wins. Equal totals push.",
}

// RenderRules formats the rules as a titled list
func RenderRules() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Twenty-One Rules"))
	b.WriteString("\n\n")
	for _, rule := range Rules {
		b.WriteString(" • ")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
