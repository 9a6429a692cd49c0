// Copyright 2026 Gitdeck, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tui renders the dashboard as four side-by-side columns, one per
// resource, each backed by its own pager. Scrolling near the bottom of a
// column loads its next page; rate-limited columns count down and retry
// automatically exactly once.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/pkg/browser"

	"github.com/gitdeckhq/gitdeck/internal/apperror"
	"github.com/gitdeckhq/gitdeck/internal/pager"
)

// lookaheadRows is how close to the bottom of a column the selection must
// be before the next page is requested.
const lookaheadRows = 5

const minColumnWidth = 24

// Column binds one dashboard column's title to its pager.
type Column struct {
	Title string
	Pager *pager.Pager

	snap        pager.Snapshot
	selected    int
	offset      int
	countdown   int
	autoRetried bool
}

// columnUpdatedMsg carries a fresh pager snapshot after a load attempt.
type columnUpdatedMsg struct {
	index int
	snap  pager.Snapshot
}

// countdownMsg advances one column's rate-limit countdown by a second.
type countdownMsg struct {
	index int
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	ctx     context.Context
	columns []Column
	focus   int
	width   int
	height  int
	spinner spinner.Model
	openURL func(url string) error
}

// NewModel creates the dashboard model. Columns render in the given order.
func NewModel(ctx context.Context, columns []Column) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		ctx:     ctx,
		columns: columns,
		spinner: s,
		openURL: browser.OpenURL,
	}
}

// Init starts the spinner and the initial load of every column.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	for i := range m.columns {
		cmds = append(cmds, m.loadMore(i))
	}
	return tea.Batch(cmds...)
}

// loadMore requests the next page for column i and reports the resulting
// snapshot. The pager itself guards against duplicate in-flight requests.
func (m Model) loadMore(i int) tea.Cmd {
	p := m.columns[i].Pager
	ctx := m.ctx
	return func() tea.Msg {
		p.LoadMore(ctx)
		return columnUpdatedMsg{index: i, snap: p.Snapshot()}
	}
}

func countdownTick(i int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownMsg{index: i}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case columnUpdatedMsg:
		col := &m.columns[msg.index]
		col.snap = msg.snap
		if appErr := msg.snap.Err; appErr != nil && appErr.Kind == apperror.KindRateLimit && !col.autoRetried {
			col.countdown = appErr.RetryAfter
			if col.countdown > 0 {
				return m, countdownTick(msg.index)
			}
		}
		return m, nil

	case countdownMsg:
		col := &m.columns[msg.index]
		if col.countdown <= 0 {
			return m, nil
		}
		col.countdown--
		if col.countdown == 0 {
			col.autoRetried = true
			return m, m.loadMore(msg.index)
		}
		return m, countdownTick(msg.index)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		for i := range m.columns {
			m.columns[i].Pager.Close()
		}
		return m, tea.Quit

	case "tab", "right", "l":
		m.focus = (m.focus + 1) % len(m.columns)
		return m, nil

	case "shift+tab", "left", "h":
		m.focus = (m.focus - 1 + len(m.columns)) % len(m.columns)
		return m, nil

	case "down", "j":
		col := &m.columns[m.focus]
		if col.selected < len(col.snap.Items)-1 {
			col.selected++
		}
		m.clampScroll(m.focus)
		if cmd := m.scrollTrigger(m.focus); cmd != nil {
			return m, cmd
		}
		return m, nil

	case "up", "k":
		col := &m.columns[m.focus]
		if col.selected > 0 {
			col.selected--
		}
		m.clampScroll(m.focus)
		return m, nil

	case "enter", "o":
		col := &m.columns[m.focus]
		if col.selected < len(col.snap.Items) {
			m.openURL(col.snap.Items[col.selected].URL)
		}
		return m, nil

	case "r":
		col := &m.columns[m.focus]
		if col.snap.Err != nil && col.snap.Err.Retryable && col.countdown == 0 {
			col.autoRetried = false
			return m, m.loadMore(m.focus)
		}
		return m, nil
	}
	return m, nil
}

// scrollTrigger fires a load for column i exactly when the selection is
// within the lookahead of the bottom, a next page exists, and no fetch is
// in flight or rate-limit countdown pending.
func (m Model) scrollTrigger(i int) tea.Cmd {
	col := &m.columns[i]
	nearBottom := col.selected >= len(col.snap.Items)-lookaheadRows
	if nearBottom && col.snap.PageInfo.HasNextPage && !col.snap.Loading && col.countdown == 0 {
		return m.loadMore(i)
	}
	return nil
}

// clampScroll keeps the selected row inside the visible card window.
func (m *Model) clampScroll(i int) {
	col := &m.columns[i]
	visible := m.visibleRows()
	if col.selected < col.offset {
		col.offset = col.selected
	}
	if col.selected >= col.offset+visible {
		col.offset = col.selected - visible + 1
	}
}

// visibleRows is the number of card rows a column can show.
func (m Model) visibleRows() int {
	// Header, footer and status line are fixed overhead.
	rows := m.height - 4
	if rows < 1 {
		return 1
	}
	return rows
}

// View renders the dashboard.
func (m Model) View() string {
	if len(m.columns) == 0 {
		return ""
	}
	colWidth := minColumnWidth
	if m.width/len(m.columns) > colWidth {
		colWidth = m.width / len(m.columns)
	}

	rendered := make([]string, 0, len(m.columns))
	for i := range m.columns {
		rendered = append(rendered, m.renderColumn(i, colWidth-2))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	help := dimStyle.Render("tab: switch  j/k: move  enter: open  r: retry  q: quit")
	return board + "\n" + help
}

func (m Model) renderColumn(i, width int) string {
	col := &m.columns[i]
	var b strings.Builder

	header := fmt.Sprintf("%s (%d)", col.Title, col.snap.TotalCount)
	style := headerStyle
	if i == m.focus {
		style = focusedHeaderStyle
	}
	b.WriteString(style.Render(truncate.StringWithTail(header, uint(width), "…")))
	b.WriteString("\n")

	visible := m.visibleRows()
	end := col.offset + visible
	if end > len(col.snap.Items) {
		end = len(col.snap.Items)
	}
	for idx := col.offset; idx < end; idx++ {
		card := col.snap.Items[idx]
		line := fmt.Sprintf("%s #%d %s", statusGlyph(card.Status), card.Number, card.Title)
		line = truncate.StringWithTail(line, uint(width), "…")
		if i == m.focus && idx == col.selected {
			b.WriteString(selectedCardStyle.Render(line))
		} else {
			b.WriteString(cardStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderColumnStatus(col, width))
	return columnStyle.Width(width + 2).Render(b.String())
}

// renderColumnStatus is the one-line footer under a column's cards.
func (m Model) renderColumnStatus(col *Column, width int) string {
	switch {
	case col.countdown > 0:
		return countdownStyle.Render(fmt.Sprintf("rate limited, retrying in %ds", col.countdown))
	case col.snap.Err != nil:
		line := errorStyle.Render(truncate.StringWithTail(col.snap.Err.Message, uint(width), "…"))
		if col.snap.Err.Retryable {
			line += dimStyle.Render("  (r to retry)")
		}
		return line
	case col.snap.Loading:
		return m.spinner.View() + dimStyle.Render(" loading")
	case col.snap.PageInfo.HasNextPage:
		return dimStyle.Render("…")
	default:
		return ""
	}
}

// Run drives the dashboard until the user quits.
func Run(ctx context.Context, columns []Column) error {
	program := tea.NewProgram(NewModel(ctx, columns), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
