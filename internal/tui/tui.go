// Package tui is the interactive terminal table, built on Bubble Tea.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/twentyone/internal/blackjack"
	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/game"
)

// tableHeight is the number of rows the table takes above the log pane
const tableHeight = 17

// Model is the Bubble Tea model for a single-player table
type Model struct {
	engine *game.Engine
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	help        help.Model
	keys        keyMap

	// Event log, fed by the engine's event bus
	feed    *logFeed
	gameLog []string

	// Display state
	view        game.RoundView
	feedback    string
	showRules   bool
	quitting    bool
	cardBack    lipgloss.Style
	dealerDelay time.Duration

	// Dealer reveal pacing after a stand
	revealing   bool
	holeHidden  bool
	dealerShown int

	// Dimensions
	width  int
	height int
}

// Option configures a Model
type Option func(*Model)

// WithCardBack selects the colour of face-down cards
func WithCardBack(name string) Option {
	return func(m *Model) { m.cardBack = cardBackStyle(name) }
}

// WithDealerDelay sets the pause between dealer cards after a stand. Zero
// shows the dealer's hand at once.
func WithDealerDelay(d time.Duration) Option {
	return func(m *Model) { m.dealerDelay = d }
}

// revealMsg turns over the next dealer card of round
type revealMsg struct{ round int }

// newRoundMsg deals a round without a key press
type newRoundMsg struct{}

// NewModel creates a model playing rounds on engine
func NewModel(engine *game.Engine, logger *log.Logger, opts ...Option) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	vp := viewport.New(60, 5)
	vp.SetContent("")

	m := &Model{
		engine:      engine,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		help:        help.New(),
		keys:        defaultKeyMap(),
		feed:        &logFeed{formatter: game.NewEventFormatter(game.FormattingOptions{})},
		cardBack:    cardBackStyle("red"),
		view:        engine.View(),
	}
	for _, opt := range opts {
		opt(m)
	}

	engine.EventBus().Subscribe(m.feed)
	m.updateKeys()
	return m
}

// Close detaches the model from the engine's event bus
func (m *Model) Close() {
	m.engine.EventBus().Unsubscribe(m.feed)
}

// Init deals the first round
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return newRoundMsg{} }
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = max(msg.Width-2, 10)
		m.logViewport.Height = max(msg.Height-tableHeight, 3)
		m.help.Width = msg.Width
		m.logViewport.GotoBottom()

	case newRoundMsg:
		cmds = append(cmds, m.deal())

	case revealMsg:
		if m.revealing && msg.round == m.view.RoundNumber {
			cmds = append(cmds, m.revealNext())
		}

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.showRules {
			m.showRules = false
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Rules):
			m.showRules = true
		case key.Matches(msg, m.keys.Hit):
			cmds = append(cmds, m.hit())
		case key.Matches(msg, m.keys.Stand):
			cmds = append(cmds, m.stand())
		case key.Matches(msg, m.keys.NewRound):
			cmds = append(cmds, m.deal())
		}
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) deal() tea.Cmd {
	if m.revealing || !m.view.CanDeal() {
		return nil
	}

	view, err := m.engine.StartRound()
	m.view = view
	m.dealerShown = len(view.DealerCards)
	if err != nil {
		m.fail("deal", err)
		return nil
	}

	m.feedback = "Your turn"
	if view.PlayerBlackjack {
		m.feedback = "Blackjack! Stand to see what the dealer has"
	}
	m.flushLog()
	m.updateKeys()
	return nil
}

func (m *Model) hit() tea.Cmd {
	card, view, err := m.engine.Hit()
	m.view = view
	m.dealerShown = len(view.DealerCards)
	if err != nil {
		m.fail("hit", err)
		return nil
	}

	if view.Resolved() {
		m.finishRound()
		return nil
	}

	m.feedback = fmt.Sprintf("You drew %s", card)
	m.flushLog()
	m.updateKeys()
	return nil
}

func (m *Model) stand() tea.Cmd {
	view, err := m.engine.Stand()
	m.view = view
	if err != nil {
		m.dealerShown = len(view.DealerCards)
		m.fail("stand", err)
		return nil
	}

	if m.dealerDelay <= 0 {
		m.dealerShown = len(view.DealerCards)
		m.finishRound()
		return nil
	}

	// the round is already resolved; replay the dealer's turn card by card
	m.revealing = true
	m.holeHidden = true
	m.dealerShown = min(2, len(view.DealerCards))
	m.feedback = "Dealer's turn"
	m.updateKeys()
	return m.tick()
}

func (m *Model) revealNext() tea.Cmd {
	if m.holeHidden {
		m.holeHidden = false
	} else if m.dealerShown < len(m.view.DealerCards) {
		m.dealerShown++
	}

	if !m.holeHidden && m.dealerShown >= len(m.view.DealerCards) {
		m.revealing = false
		m.finishRound()
		return nil
	}
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	round := m.view.RoundNumber
	return tea.Tick(m.dealerDelay, func(time.Time) tea.Msg {
		return revealMsg{round: round}
	})
}

func (m *Model) finishRound() {
	m.feedback = outcomeText(m.view.Outcome)
	m.flushLog()
	m.updateKeys()
}

func (m *Model) fail(action string, err error) {
	m.logger.Error("Engine rejected action", "action", action, "error", err)
	if errors.Is(err, deck.ErrDeckExhausted) {
		m.feedback = ErrorStyle.Render("The deck ran out of cards")
	} else {
		m.feedback = ErrorStyle.Render(err.Error())
	}
	m.flushLog()
	m.updateKeys()
}

func (m *Model) updateKeys() {
	m.keys.Hit.SetEnabled(!m.revealing && m.view.CanAct())
	m.keys.Stand.SetEnabled(!m.revealing && m.view.CanAct())
	m.keys.NewRound.SetEnabled(!m.revealing && m.view.CanDeal())
}

// flushLog moves formatted events from the feed into the log pane
func (m *Model) flushLog() {
	lines := m.feed.drain()
	if len(lines) == 0 {
		return
	}
	m.gameLog = append(m.gameLog, lines...)
	m.logViewport.SetContent(GameLogStyle.Render(strings.Join(m.gameLog, "\n")))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showRules {
		return RenderRules() + "\n" + InfoStyle.Render("  press any key to return")
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	header := HeaderStyle.Render("Twenty-One")
	if m.view.RoundNumber > 0 {
		header += InfoStyle.Render(fmt.Sprintf("  round %d · %d cards left", m.view.RoundNumber, m.view.CardsRemaining))
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	dealer := m.dealerCards()
	b.WriteString(HandInfoStyle.Render("Dealer") + "  " + m.dealerTotal(dealer))
	b.WriteString("\n")
	b.WriteString(m.renderDealerCards(dealer))
	b.WriteString("\n")

	b.WriteString(HandInfoStyle.Render("You") + "  " + m.playerTotal())
	b.WriteString("\n")
	b.WriteString(m.renderCards(m.view.PlayerCards))
	b.WriteString("\n\n")

	b.WriteString(m.renderFeedback())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")

	b.WriteString(logFrame.Render(m.logViewport.View()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// dealerCards returns the dealer's cards as they should currently appear
func (m *Model) dealerCards() []game.CardView {
	n := min(m.dealerShown, len(m.view.DealerCards))
	cards := make([]game.CardView, n)
	copy(cards, m.view.DealerCards[:n])
	if m.holeHidden && n > 0 {
		cards[0].Hidden = true
	}
	return cards
}

func (m *Model) dealerTotal(cards []game.CardView) string {
	if len(cards) == 0 {
		return InfoStyle.Render("Total: ?")
	}

	var visible blackjack.Hand
	hidden := false
	for _, c := range cards {
		if c.Hidden {
			hidden = true
			continue
		}
		visible = append(visible, c.Card)
	}

	if hidden {
		return InfoStyle.Render(fmt.Sprintf("Total: %d + ?", visible.Total()))
	}
	return totalText(visible.Total(), visible.IsSoft())
}

func (m *Model) playerTotal() string {
	if len(m.view.PlayerCards) == 0 {
		return InfoStyle.Render("Total: ?")
	}
	text := totalText(m.view.PlayerTotal, m.view.PlayerSoft)
	if m.view.PlayerBlackjack {
		text += " " + WarningStyle.Render("BLACKJACK")
	}
	return text
}

func totalText(total int, soft bool) string {
	text := fmt.Sprintf("Total: %d", total)
	if soft {
		text = fmt.Sprintf("Total: soft %d", total)
	}
	if total > blackjack.Target {
		return ErrorStyle.Render(text + " (bust)")
	}
	return text
}

func (m *Model) renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = m.renderCard(game.CardView{Card: c})
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderDealerCards(cards []game.CardView) string {
	if len(cards) == 0 {
		return ""
	}
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = m.renderCard(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderCard(c game.CardView) string {
	if c.Hidden {
		return cardFrame.Render(m.cardBack.Render("░░░░"))
	}
	if c.Card.IsRed() {
		return cardFrame.Render(RedCardStyle.Render(c.Card.String()))
	}
	return cardFrame.Render(BlackCardStyle.Render(c.Card.String()))
}

func (m *Model) renderFeedback() string {
	if !m.view.Resolved() || m.revealing {
		return WarningStyle.Render(m.feedback)
	}
	if m.view.Outcome.PlayerWon() {
		return SuccessStyle.Render(m.feedback)
	}
	if m.view.Outcome.DealerWon() {
		return ErrorStyle.Render(m.feedback)
	}
	return WarningStyle.Render(m.feedback)
}

func (m *Model) renderStats() string {
	stats := m.engine.Stats()
	return InfoStyle.Render(fmt.Sprintf("Won %d · Lost %d · Pushed %d",
		stats.Wins(), stats.Losses(), stats.Pushes()))
}

// outcomeText is the line shown to the player when a round ends
func outcomeText(o blackjack.Outcome) string {
	switch o {
	case blackjack.PlayerBusts:
		return "Bust! You went over 21"
	case blackjack.DealerBusts:
		return "Dealer busts. You win!"
	case blackjack.PlayerWins:
		return "You win!"
	case blackjack.DealerWins:
		return "Dealer wins"
	case blackjack.Push:
		return "Push. It's a tie"
	default:
		return ""
	}
}

// logFeed collects formatted events as the engine publishes them. The
// engine publishes from the goroutine that called it, which is always
// Update, so no locking is needed.
type logFeed struct {
	formatter *game.EventFormatter
	lines     []string
}

// OnEvent implements game.EventSubscriber
func (f *logFeed) OnEvent(event game.GameEvent) {
	if line := f.formatter.Format(event); line != "" {
		f.lines = append(f.lines, line)
	}
}

func (f *logFeed) drain() []string {
	lines := f.lines
	f.lines = nil
	return lines
}
