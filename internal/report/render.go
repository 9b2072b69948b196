package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/twentyone/internal/blackjack"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Width(18)

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))
)

const barWidth = 30

// Render formats the report for a terminal
func (r Report) Render() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%d rounds, standing on %d", r.Rounds, r.StandOn)))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Seed", strconv.FormatInt(r.Seed, 10))
	row("Workers", strconv.Itoa(r.Workers))
	row("Duration", r.Duration)
	b.WriteString("\n")

	for _, o := range Outcomes {
		n := r.Outcomes[o.String()]
		row(outcomeLabel(o), fmt.Sprintf("%7d  %s", n, bar(n, r.Rounds)))
	}
	b.WriteString("\n")

	s := r.Summary
	mean := fmt.Sprintf("%+.4f units/round", s.Mean)
	if s.Mean >= 0 {
		mean = goodStyle.Render(mean)
	} else {
		mean = badStyle.Render(mean)
	}
	row("Expectation", mean)
	row("95% CI", fmt.Sprintf("[%+.4f, %+.4f]", s.CILow, s.CIHigh))
	row("Std dev", fmt.Sprintf("%.4f", s.StdDev))
	row("Win / loss / push", fmt.Sprintf("%.1f%% / %.1f%% / %.1f%%", s.WinRate*100, s.LossRate*100, s.PushRate*100))
	row("Dealer busts", fmt.Sprintf("%.1f%% of hands played out", s.DealerBustRate*100))
	row("Blackjacks dealt", strconv.Itoa(s.PlayerBlackjacks))

	if len(r.DealerTotals) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Dealer finished"))
		b.WriteString("\n")
		played := 0
		for _, n := range r.DealerTotals {
			played += n
		}
		for total := blackjack.DealerStandsOn; total <= 26; total++ {
			n, ok := r.DealerTotals[strconv.Itoa(total)]
			if !ok {
				continue
			}
			label := strconv.Itoa(total)
			if total > blackjack.Target {
				label += " (bust)"
			}
			row("  "+label, fmt.Sprintf("%7d  %s", n, bar(n, played)))
		}
	}

	return b.String()
}

func outcomeLabel(o blackjack.Outcome) string {
	switch o {
	case blackjack.PlayerWins:
		return "Player wins"
	case blackjack.DealerBusts:
		return "Dealer busts"
	case blackjack.Push:
		return "Push"
	case blackjack.DealerWins:
		return "Dealer wins"
	case blackjack.PlayerBusts:
		return "Player busts"
	}
	return o.String()
}

func bar(n, of int) string {
	if of == 0 {
		return ""
	}
	width := n * barWidth / of
	return barStyle.Render(strings.Repeat("█", width)) + fmt.Sprintf(" %.1f%%", float64(n)*100/float64(of))
}
