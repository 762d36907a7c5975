// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Evomin Authors

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coldforge/evomin/pkg/evomin"
)

// logEntry is one line in the TUI's scrolling event log, grounded on the
// original tui.go's errorLogEntry.
type logEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// monitorModel is the bubbletea model driving `monitor --tui`, generalizing
// the original tui.go's model from a fixed heliostat telemetry schema down
// to evomin's link-agnostic frame/reply/statistics shape. The scrolling
// event log is a bubbles/viewport (the same component family the teacher's
// control_tui.go used for its device list) instead of hand-rolled slicing.
type monitorModel struct {
	linkDesc string

	stats     *evomin.Statistics
	log       []logEntry
	lastFrame string

	logView  viewport.Model
	width    int
	height   int
	quitting bool
}

type tickMsg time.Time

// frameMsg is pushed onto the tea.Program from the engine's poll goroutine
// whenever a frame is delivered.
type frameMsg struct {
	summary string
	isError bool
}

func newMonitorModel(linkDesc string, stats *evomin.Statistics) monitorModel {
	return monitorModel{
		linkDesc: linkDesc,
		stats:    stats,
		logView:  viewport.New(78, 10),
		width:    80,
		height:   24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.EnterAltScreen)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		m.logView.Height = msg.Height - 12
		m.renderLog()

	case tickMsg:
		return m, tickCmd()

	case frameMsg:
		m.lastFrame = msg.summary
		m.addLogEntry(msg.summary, msg.isError)
	}

	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	m.log = append(m.log, logEntry{timestamp: time.Now(), message: message, isError: isError})
	const maxLogEntries = 500
	if len(m.log) > maxLogEntries {
		m.log = m.log[len(m.log)-maxLogEntries:]
	}
	m.renderLog()
}

// renderLog rebuilds the viewport's content from the log buffer and keeps
// the scroll position pinned to the bottom, so new frames stay visible
// unless the user has scrolled up to look at history.
func (m *monitorModel) renderLog() {
	atBottom := m.logView.AtBottom()

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	var b strings.Builder
	for _, e := range m.log {
		line := fmt.Sprintf("[%s] %s", e.timestamp.Format("15:04:05.000"), e.message)
		if e.isError {
			line = errorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	m.logView.SetContent(strings.TrimRight(b.String(), "\n"))
	if atBottom {
		m.logView.GotoBottom()
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Background(lipgloss.Color("235")).Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("EVOMIN - MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Link: %s | Press 'q' to quit", m.linkDesc)))
	s.WriteString("\n\n")

	statsBlock := fmt.Sprintf(
		"%s %s   %s %s   %s %s\n%s %s   %s %s   %s %s",
		labelStyle.Render("Delivered:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.FramesDelivered)),
		labelStyle.Render("Sent:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.FramesSent)),
		labelStyle.Render("Rate:"), valueStyle.Render(fmt.Sprintf("%.1f/s", m.stats.FrameRate)),
		labelStyle.Render("Framing errs:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.FramingErrors)),
		labelStyle.Render("CRC errs:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.CRCErrors)),
		labelStyle.Render("Retries exhausted:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.RetriesExhausted)),
	)
	s.WriteString(boxStyle.Render(statsBlock))
	s.WriteString("\n\n")

	s.WriteString(boxStyle.Render(m.logView.View()))
	s.WriteString("\n")

	return s.String()
}

// runTUI drives engine.Poll() on a background goroutine, pushing a frameMsg
// to the program for every delivered frame, until the user quits. Any
// OnFrameReceived hook already registered on engine (capture/telemetry
// recording set up by the caller) is preserved and chained.
func runTUI(linkDesc string, engine *evomin.Engine) error {
	m := newMonitorModel(linkDesc, engine.Stats())
	p := tea.NewProgram(m)

	previous := engine.FrameReceivedHook()
	engine.OnFrameReceived(func(f *evomin.Frame, reply evomin.ReplyFunc) {
		if previous != nil {
			previous(f, reply)
		}
		p.Send(frameMsg{summary: evomin.FormatCommand(f.Command) + " " + fmt.Sprintf("(0x%02X) valid=%t", f.Command, f.IsValid), isError: !f.IsValid})
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if err := engine.Poll(); err != nil {
				p.Send(frameMsg{summary: fmt.Sprintf("link closed: %v", err), isError: true})
				p.Quit()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	_, err := p.Run()
	return err
}
