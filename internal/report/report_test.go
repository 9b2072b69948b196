package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/blackjack"
	"github.com/lox/twentyone/internal/statistics"
)

func sampleStats() *statistics.Statistics {
	s := &statistics.Statistics{}
	s.Add(statistics.RoundResult{Outcome: blackjack.PlayerWins, PlayerTotal: 20, DealerTotal: 18, PlayerCards: 2, DealerCards: 2})
	s.Add(statistics.RoundResult{Outcome: blackjack.DealerBusts, PlayerTotal: 15, DealerTotal: 24, PlayerCards: 2, DealerCards: 3})
	s.Add(statistics.RoundResult{Outcome: blackjack.PlayerBusts, PlayerTotal: 25, DealerTotal: 12, PlayerCards: 3, DealerCards: 2})
	s.Add(statistics.RoundResult{Outcome: blackjack.Push, PlayerTotal: 18, DealerTotal: 18, PlayerCards: 2, DealerCards: 3})
	return s
}

var params = Params{Seed: 7, Rounds: 4, Workers: 2, StandOn: 17, Duration: 1500 * time.Microsecond}

func TestNew(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 500, time.UTC)
	r := New(sampleStats(), params, now)

	assert.Equal(t, 4, r.Rounds)
	assert.Equal(t, "2ms", r.Duration)
	assert.Equal(t, now.Truncate(time.Second), r.GeneratedAt)
	assert.Equal(t, map[string]int{
		"player_win":  1,
		"dealer_bust": 1,
		"push":        1,
		"dealer_win":  0,
		"player_bust": 1,
	}, r.Outcomes)
	assert.Equal(t, map[string]int{"18": 2, "24": 1}, r.DealerTotals)
	assert.InDelta(t, 0.25, r.Summary.Mean, 1e-9)
	assert.InDelta(t, 0.5, r.Summary.WinRate, 1e-9)
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.toml")
	want := New(sampleStats(), params, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	require.NoError(t, want.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadFileRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.toml")
	require.NoError(t, os.WriteFile(path, []byte("rounds = 3\nbankroll = 100\n"), 0o644))

	_, err := ReadFile(path)
	assert.ErrorContains(t, err, "bankroll")
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(sampleStats(), params, time.Unix(0, 0)).Encode(&buf))

	out := buf.String()
	assert.Contains(t, out, "seed = 7")
	assert.Contains(t, out, "[summary]")
	assert.Contains(t, out, "[outcomes]")
	assert.Contains(t, out, "player_bust = 1")
}

func TestRender(t *testing.T) {
	out := New(sampleStats(), params, time.Unix(0, 0)).Render()

	assert.Contains(t, out, "4 rounds, standing on 17")
	assert.Contains(t, out, "Dealer busts")
	assert.Contains(t, out, "24 (bust)")
	assert.Contains(t, out, "+0.2500 units/round")
}
