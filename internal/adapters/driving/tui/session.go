package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-research/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-research/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-research/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-research/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-research/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

// chromeHeight is the number of rows used by the header, input and status bar.
const chromeHeight = 6

// entry is one question and its outcome in the transcript.
type entry struct {
	question string
	followUp bool
	report   *domain.ResearchReport
	quality  *domain.QualityAssessment
	err      error
}

// SessionView is the interactive research session. It implements tea.Model.
type SessionView struct {
	ports      *Ports
	ctx        context.Context
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QueryInput
	statusbar  *status.Bar
	transcript viewport.Model

	entries []entry
	busy    bool
	width   int
	height  int
}

// Ensure SessionView implements tea.Model.
var _ tea.Model = (*SessionView)(nil)

// NewSessionView creates a session view over the given ports.
func NewSessionView(ports *Ports) (*SessionView, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating session view: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	v := &SessionView{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		statusbar:  status.NewBar(s, km),
		transcript: viewport.New(80, 24-chromeHeight),
		width:      80,
		height:     24,
	}
	v.refresh()
	return v, nil
}

// WithContext sets the context used for research calls.
func (v *SessionView) WithContext(ctx context.Context) *SessionView {
	v.ctx = ctx
	return v
}

// Init implements tea.Model.
func (v *SessionView) Init() tea.Cmd {
	return v.input.Init()
}

// Update implements tea.Model.
func (v *SessionView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ResearchRequested:
		return v, v.startResearch(msg)

	case messages.ResearchCompleted:
		v.handleCompleted(msg)
		return v, nil

	case messages.SessionReset:
		v.entries = nil
		v.input.SetFollowUp(false)
		v.statusbar.Clear()
		v.statusbar.SetMessage("New session")
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.statusbar, cmd = v.statusbar.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *SessionView) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keymap.ScrollUp):
		v.transcript.HalfViewUp()
		return v, nil

	case key.Matches(msg, v.keymap.ScrollDown):
		v.transcript.HalfViewDown()
		return v, nil

	case key.Matches(msg, v.keymap.NewSession):
		if v.busy {
			return v, nil
		}
		v.ports.Session.Reset()
		return v, func() tea.Msg { return messages.SessionReset{} }

	case key.Matches(msg, v.keymap.Submit):
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.busy {
			return v, nil
		}
		v.input.Reset()
		followUp := len(v.ports.Session.History()) > 0
		return v, func() tea.Msg {
			return messages.ResearchRequested{Question: question, FollowUp: followUp}
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// startResearch marks the view busy and runs the research call.
func (v *SessionView) startResearch(req messages.ResearchRequested) tea.Cmd {
	v.busy = true
	v.input.Blur()
	return tea.Batch(v.statusbar.StartResearching(), v.research(req))
}

// research runs the question through the session off the UI loop.
func (v *SessionView) research(req messages.ResearchRequested) tea.Cmd {
	ports := v.ports
	ctx := v.ctx
	return func() tea.Msg {
		var (
			report *domain.ResearchReport
			err    error
		)
		if req.FollowUp {
			report, err = ports.Session.Ask(ctx, req.Question)
		} else {
			report, err = ports.Session.Start(ctx, req.Question)
		}

		done := messages.ResearchCompleted{
			Question: req.Question,
			FollowUp: req.FollowUp,
			Report:   report,
			Err:      err,
		}
		if err != nil {
			return done
		}

		if ports.Quality != nil {
			q := ports.Quality.Assess(report)
			done.Quality = &q
		}
		if ports.History != nil {
			if err := ports.History.Save(ctx, report); err != nil {
				logger.Warn("tui: archiving report %s: %v", report.ID, err)
			}
		}
		return done
	}
}

// handleCompleted records a finished question in the transcript.
func (v *SessionView) handleCompleted(msg messages.ResearchCompleted) {
	v.busy = false
	v.entries = append(v.entries, entry{
		question: msg.Question,
		followUp: msg.FollowUp,
		report:   msg.Report,
		quality:  msg.Quality,
		err:      msg.Err,
	})

	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
		v.input.SetFollowUp(true)
	}
	v.statusbar.SetQuestions(len(v.entries))

	v.input.Focus()
	v.refresh()
	v.transcript.GotoBottom()
}

// SetDimensions resizes the view.
func (v *SessionView) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	v.transcript.Width = width
	v.transcript.Height = max(height-chromeHeight, 3)
	v.refresh()
}

// refresh re-renders the transcript content.
func (v *SessionView) refresh() {
	v.transcript.SetContent(v.renderTranscript())
}

// View implements tea.Model.
func (v *SessionView) View() string {
	header := v.styles.Title.Render("sercha-research") + " " +
		v.styles.Muted.Render("local research session")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		v.transcript.View(),
		v.input.View(),
		v.statusbar.View(),
	)
}

// renderTranscript renders every entry, oldest first.
func (v *SessionView) renderTranscript() string {
	if len(v.entries) == 0 {
		return v.styles.Muted.Render("Ask a question to start researching. Later questions are follow-ups.")
	}

	width := max(v.width-4, 20)
	blocks := make([]string, 0, len(v.entries))
	for i := range v.entries {
		blocks = append(blocks, v.renderEntry(&v.entries[i], width))
	}
	return strings.Join(blocks, "\n\n")
}

// renderEntry renders a question with its synthesis and scores.
func (v *SessionView) renderEntry(e *entry, width int) string {
	prefix := "Q: "
	if e.followUp {
		prefix = "Follow-up: "
	}

	lines := []string{v.styles.Question.Render(prefix + e.question)}
	if e.err != nil {
		lines = append(lines, v.styles.Error.Render("Error: "+e.err.Error()))
		return strings.Join(lines, "\n")
	}

	r := e.report
	lines = append(lines, v.styles.Evidence.Width(width).Render(r.Synthesis))

	score := v.styles.Confidence(r.ConfidenceScore).Render(fmt.Sprintf("%.2f", r.ConfidenceScore))
	meta := "confidence " + score + v.styles.Muted.Render(fmt.Sprintf(" · %d steps", len(r.Steps)))
	if e.quality != nil {
		meta += v.styles.Muted.Render(" · quality ") +
			v.styles.Grade(e.quality.Grade).Render(string(e.quality.Grade))
	}
	lines = append(lines, meta)

	if len(r.SourcesUsed) > 0 {
		lines = append(lines, v.styles.Muted.Render("sources: "+strings.Join(r.SourcesUsed, ", ")))
	}
	return strings.Join(lines, "\n")
}

// Busy reports whether a research call is in flight.
func (v *SessionView) Busy() bool {
	return v.busy
}

// Entries returns the number of transcript entries.
func (v *SessionView) Entries() int {
	return len(v.entries)
}
