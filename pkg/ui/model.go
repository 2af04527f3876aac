package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/go-go-golems/teamchat/pkg/events"
	"github.com/go-go-golems/teamchat/pkg/personas"
	"github.com/go-go-golems/teamchat/pkg/session"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const thinkingText = "Thinking..."

// EventMsg carries a session event from the event router into the program.
type EventMsg struct {
	Event events.Event
}

type exchangeDoneMsg struct {
	exchangeID string
}

type Model struct {
	ctx        context.Context
	controller *session.Controller
	catalog    *personas.Catalog

	textArea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	keyMap      KeyMap
	style       *Style
	glamourName string

	width  int
	height int
	ready  bool
	notice string
	err    error
}

type ModelOption func(*Model)

func WithKeyMap(keyMap KeyMap) ModelOption {
	return func(m *Model) {
		m.keyMap = keyMap
	}
}

func WithStyle(style *Style) ModelOption {
	return func(m *Model) {
		m.style = style
	}
}

// WithGlamourStyle selects the glamour style used for assistant replies
// ("dark", "light", "notty", ...).
func WithGlamourStyle(name string) ModelOption {
	return func(m *Model) {
		m.glamourName = name
	}
}

// NewModel creates the chat UI. The controller should already have an active
// persona; otherwise the first persona of the catalog is selected.
func NewModel(ctx context.Context, controller *session.Controller, catalog *personas.Catalog, options ...ModelOption) Model {
	ret := Model{
		ctx:         ctx,
		controller:  controller,
		catalog:     catalog,
		keyMap:      DefaultKeyMap,
		style:       DefaultStyles(),
		glamourName: "dark",
		width:       80,
		height:      24,
	}
	for _, o := range options {
		o(&ret)
	}

	ret.textArea = textarea.New()
	ret.textArea.Placeholder = "Type your message..."
	ret.textArea.ShowLineNumbers = false
	ret.textArea.SetHeight(3)
	ret.textArea.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ret.textArea.Focus()

	ret.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	ret.viewport = viewport.New(ret.width, ret.viewportHeight())

	if controller.PersonaID() == "" {
		if err := controller.SelectPersona(ctx, catalog.First()); err != nil {
			ret.err = err
		}
	}

	ret.updateKeyBindings()
	ret.resize()
	ret.refresh()

	return ret
}

func (m *Model) updateKeyBindings() {
	pending := m.controller.State() == session.StatePending
	m.keyMap.Submit.SetEnabled(!pending && m.controller.HasGenerator())
	m.keyMap.ClearHistory.SetEnabled(!pending)
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.NextPersona):
			m.switchPersona(1)

		case key.Matches(msg, m.keyMap.PrevPersona):
			m.switchPersona(-1)

		case key.Matches(msg, m.keyMap.Submit):
			cmds = append(cmds, m.submit())

		case key.Matches(msg, m.keyMap.ClearHistory):
			if err := m.controller.ClearHistory(m.ctx); err != nil {
				log.Debug().Err(err).Msg("Could not clear history")
			}
			m.notice = ""
			m.refresh()

		case key.Matches(msg, m.keyMap.ScrollUp), key.Matches(msg, m.keyMap.ScrollDown):
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)

		default:
			m.textArea, cmd = m.textArea.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.refresh()

	case spinner.TickMsg:
		if m.controller.State() == session.StatePending {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case exchangeDoneMsg:
		m.updateKeyBindings()
		m.refresh()

	case EventMsg:
		m.handleEvent(msg.Event)

	default:
		m.textArea, cmd = m.textArea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleEvent(ev events.Event) {
	switch e := ev.(type) {
	case *events.EventMessageAppended:
		if !e.Active {
			name := e.Metadata().PersonaID
			if p, ok := m.catalog.Lookup(name); ok {
				name = p.Name
			}
			m.notice = fmt.Sprintf("%s replied in the background.", name)
		}
	case *events.EventExchangeFinished:
		m.updateKeyBindings()
	}
	m.refresh()
}

func (m *Model) switchPersona(delta int) {
	next := m.catalog.Cycle(m.controller.PersonaID(), delta)
	if err := m.controller.SelectPersona(m.ctx, next); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.notice = ""
	m.refresh()
}

func (m *Model) submit() tea.Cmd {
	ex, err := m.controller.Submit(m.ctx, m.textArea.Value())
	if err != nil {
		log.Debug().Err(err).Msg("Ignoring submit")
		return nil
	}
	m.textArea.Reset()
	m.notice = ""
	m.updateKeyBindings()
	m.refresh()

	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		<-ex.Done()
		return exchangeDoneMsg{exchangeID: ex.ID}
	})
}

func (m *Model) viewportHeight() int {
	// header, description, input box, status and help lines
	h := m.height - 2 - (m.textArea.Height() + 2) - 2
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) resize() {
	frame, _ := m.style.Input.GetFrameSize()
	m.textArea.SetWidth(m.width - frame)
	m.viewport.Width = m.width
	m.viewport.Height = m.viewportHeight()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.glamourName),
		glamour.WithWordWrap(m.contentWidth()),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Could not create markdown renderer")
		m.renderer = nil
		return
	}
	m.renderer = renderer
}

func (m *Model) contentWidth() int {
	frame, _ := m.style.AssistantMessage.GetFrameSize()
	w := m.width - frame
	if w < 10 {
		w = 10
	}
	return w
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m *Model) renderConversation() string {
	personaID := m.controller.PersonaID()
	history := m.controller.History()

	if len(history) == 0 {
		greeting := personas.DefaultGreeting
		if p, ok := m.catalog.Lookup(personaID); ok {
			greeting = p.WelcomeText()
		}
		return m.style.Greeting.Render(m.wrap(greeting))
	}

	parts := make([]string, 0, len(history))
	for _, msg := range history {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderMessage(msg conversation.Message) string {
	if msg.Role == conversation.RoleUser {
		return m.style.UserMessage.Render(m.wrap(msg.Content))
	}
	content := m.wrap(msg.Content)
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(msg.Content); err == nil {
			content = strings.TrimSpace(rendered)
		}
	}
	return m.style.AssistantMessage.Render(content)
}

func (m *Model) wrap(s string) string {
	return wordwrap.String(s, m.contentWidth())
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.renderTabs())
	sb.WriteString("\n")
	if p, ok := m.catalog.Lookup(m.controller.PersonaID()); ok {
		sb.WriteString(m.style.Description.Render(wordwrap.String(p.Description, m.width)))
	}
	sb.WriteString("\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	switch {
	case m.err != nil:
		sb.WriteString(m.style.Error.Render(m.err.Error()))
	case !m.controller.HasGenerator():
		sb.WriteString(m.style.Error.Render("No model configured, messages cannot be sent."))
	case m.controller.State() == session.StatePending:
		sb.WriteString(m.style.Status.Render(m.spinner.View() + " " + thinkingText))
	case m.notice != "":
		sb.WriteString(m.style.Status.Render(m.notice))
	}
	sb.WriteString("\n")

	sb.WriteString(m.style.Input.Render(m.textArea.View()))
	sb.WriteString("\n")
	sb.WriteString(m.renderHelp())

	return sb.String()
}

func (m Model) renderTabs() string {
	active := m.controller.PersonaID()
	tabs := make([]string, 0, m.catalog.Len())
	for _, p := range m.catalog.List() {
		style := m.style.Tab
		if p.ID == active {
			style = m.style.ActiveTab.Foreground(PersonaColor(p.Color))
		}
		tabs = append(tabs, style.Render(p.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderHelp() string {
	parts := []string{}
	for _, b := range m.keyMap.helpBindings() {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.style.Help.Render(strings.Join(parts, " • "))
}

// Forward returns an event handler that feeds session events into p.
func Forward(p *tea.Program) func(ctx context.Context, ev events.Event) error {
	return func(_ context.Context, ev events.Event) error {
		if p == nil {
			return errors.New("no program to forward events to")
		}
		p.Send(EventMsg{Event: ev})
		return nil
	}
}
