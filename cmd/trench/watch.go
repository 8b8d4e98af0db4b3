package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	cl "trench/internal/cli"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const watchPollEvery = 250 * time.Millisecond

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	memeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func newWatchCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard for the running day",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := watchModel{
				client:   newClient(apiBase),
				progress: progress.New(progress.WithDefaultGradient()),
			}
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}

type watchModel struct {
	client   *cl.Client
	progress progress.Model
	state    map[string]any
	events   []any
	fetchErr error
}

type pollMsg struct {
	state  map[string]any
	events []any
	err    error
}

type tickMsg struct{}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.poll(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(watchPollEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m watchModel) poll() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		state, err := client.State(ctx)
		if err != nil {
			return pollMsg{err: err}
		}
		feed, err := client.Events(ctx)
		if err != nil {
			return pollMsg{state: state, err: err}
		}
		events, _ := feed["events"].([]any)
		return pollMsg{state: state, events: events}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		return m, tea.Batch(m.poll(), tick())
	case pollMsg:
		m.fetchErr = msg.err
		if msg.state != nil {
			m.state = msg.state
		}
		if msg.events != nil {
			m.events = msg.events
		}
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 8
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TRENCH") + "  " + labelStyle.Render("q to quit") + "\n\n")

	if m.fetchErr != nil {
		b.WriteString(badStyle.Render("api unreachable: "+m.fetchErr.Error()) + "\n")
		return b.String()
	}
	if m.state == nil {
		b.WriteString(labelStyle.Render("connecting...") + "\n")
		return b.String()
	}

	phase, _ := m.state["phase"].(string)
	b.WriteString(labelStyle.Render("phase ") + phase + "\n")
	if progressVal, ok := m.state["day_progress"].(float64); ok {
		b.WriteString(m.progress.ViewAs(progressVal) + "\n")
	}
	b.WriteString("\n")

	if player, ok := m.state["player"].(map[string]any); ok {
		var stats []string
		stats = append(stats, statLine("day", player, "day", "%.0f"))
		stats = append(stats, statLine("SOL", player, "sol", "%.2f"))
		stats = append(stats, statLine("health", player, "health", "%.1f"))
		stats = append(stats, statLine("skill", player, "trading_skill", "%.0f"))
		stats = append(stats, statLine("xp", player, "xp", "%.0f"))
		if title, ok := m.state["title"].(string); ok && title != "" {
			stats = append(stats, labelStyle.Render("rank ")+title)
		}
		if mood, ok := player["trading_mood"].(string); ok && mood != "" {
			stats = append(stats, labelStyle.Render("mood ")+mood)
		}
		b.WriteString(borderStyle.Render(strings.Join(stats, "\n")) + "\n\n")

		if trade, ok := m.state["trade"].(map[string]any); ok {
			pnl, _ := trade["pnl"].(float64)
			line := fmt.Sprintf("%v  pnl %+.2f SOL", trade["coin"], pnl)
			if pnl >= 0 {
				b.WriteString(goodStyle.Render("▲ "+line) + "\n")
			} else {
				b.WriteString(badStyle.Render("▼ "+line) + "\n")
			}
		}
		if coin, ok := player["active_memecoin"].(map[string]any); ok {
			b.WriteString(memeStyle.Render(fmt.Sprintf("● %v  %v  %.0f holders",
				coin["name"], coin["phase"], numOr(coin, "holders", 0))) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("console") + "\n")
	events := m.events
	if len(events) > 8 {
		events = events[len(events)-8:]
	}
	for _, raw := range events {
		ev, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		msg, _ := ev["message"].(string)
		switch ev["kind"] {
		case "success", "pnl":
			b.WriteString(goodStyle.Render(msg) + "\n")
		case "error", "rug_pull":
			b.WriteString(badStyle.Render(msg) + "\n")
		case "meme":
			b.WriteString(memeStyle.Render(msg) + "\n")
		default:
			b.WriteString(msg + "\n")
		}
	}
	return b.String()
}

func statLine(label string, m map[string]any, key, format string) string {
	return labelStyle.Render(label+" ") + fmt.Sprintf(format, numOr(m, key, 0))
}
