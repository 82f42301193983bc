package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/state"
	"github.com/jwebster45206/quest-helper/pkg/world"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const PlaceHolderText = "Type /help for commands..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	session       *state.Session
	quest         *quest.Quest
	panels        []quest.PanelView
	step          *StepResponse
	guideViewport viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	stream        *eventStream
	ready         bool
	width         int
	height        int
	err           error
	status        string
	loading       bool

	// Quest selection state
	showQuestModal bool
	questNames     []string
	questMap       map[string]string
	selectedQuest  int
	loadingQuests  bool

	// Quit confirmation state
	showQuitModal bool
}

// eventStream is shared by every copy of the model so the SSE listener can
// be stopped from main.
type eventStream struct {
	ctx    context.Context
	cancel context.CancelFunc
	events chan SSEEvent
}

type questsLoadedMsg struct {
	names    []string
	questMap map[string]string
	err      error
}

type sessionCreatedMsg struct {
	session *state.Session
	quest   *quest.Quest
	panels  []quest.PanelView
	step    *StepResponse
	err     error
}

type stepMsg struct {
	step *StepResponse
	note string
	err  error
}

type sessionMsg struct {
	session *state.Session
	err     error
}

type sseEventMsg struct {
	event SSEEvent
	ok    bool
}

var (
	guidePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	currentStepStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")). // green
				Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

var titleCaser = cases.Title(language.English)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	guideVp := viewport.New(50, 20)
	guideVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ctx, cancel := context.WithCancel(context.Background())

	return ConsoleUI{
		config:         cfg,
		client:         client,
		textarea:       ta,
		guideViewport:  guideVp,
		metaViewport:   metaVp,
		stream:         &eventStream{ctx: ctx, cancel: cancel, events: make(chan SSEEvent, 16)},
		showQuestModal: true,
		loadingQuests:  true,
	}
}

// Close stops the event listener.
func (m ConsoleUI) Close() {
	m.stream.cancel()
}

// writeGuide renders the resolved step the player should act on.
func writeGuide(step *StepResponse, width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("QUEST HELPER") + "\n\n")

	if step == nil {
		content.WriteString("No step resolved yet.\n")
		return content.String()
	}

	heading := fmt.Sprintf("Stage %d", step.Stage)
	if step.Conditional {
		heading += promptStyle.Render("  (depends on what you carry)")
	}
	content.WriteString(labelStyle.Render(heading) + "\n\n")
	content.WriteString(wordwrap.String(step.Step.Text, width) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(width, 4))) + "\n\n")

	s := step.Step
	content.WriteString(labelStyle.Render("Target: ") + describeTarget(s) + "\n")
	content.WriteString(labelStyle.Render("Location: ") + describeLocation(s.Location) + "\n")
	if step.IconName != "" {
		content.WriteString(labelStyle.Render("Use item: ") + highlightStyle.Render(step.IconName) + "\n")
	}

	if len(s.Requirements) > 0 {
		content.WriteString("\n" + labelStyle.Render("Bring:") + "\n")
		for _, r := range s.Requirements {
			content.WriteString("• " + describeRequirement(r.Name, r.Threshold(), r.Highlight) + "\n")
		}
	}

	if len(s.Dialog) > 0 {
		content.WriteString("\n" + labelStyle.Render("Dialog options, in order:") + "\n")
		for i, option := range s.Dialog {
			content.WriteString(fmt.Sprintf("%d. %s\n", i+1, wordwrap.String(option, width-3)))
		}
	}

	return content.String()
}

func describeTarget(s quest.Step) string {
	if s.TargetID == nil {
		return "unknown"
	}
	switch s.Kind {
	case quest.StepNPC:
		return fmt.Sprintf("NPC %d", *s.TargetID)
	case quest.StepObject:
		return fmt.Sprintf("object %d", *s.TargetID)
	default:
		return strconv.Itoa(*s.TargetID)
	}
}

func describeLocation(p *world.Point) string {
	if p == nil {
		return "unknown"
	}
	return p.String()
}

func describeRequirement(name string, quantity int, highlight bool) string {
	text := name
	if quantity > 1 {
		text = fmt.Sprintf("%s x%d", name, quantity)
	}
	if highlight {
		return highlightStyle.Render(text)
	}
	return text
}

// writeMetadata renders the panels with the current step marked, plus the
// reported player state.
func writeMetadata(s *state.Session, panels []quest.PanelView, currentKey string, width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("PROGRESS") + "\n\n")

	for _, p := range panels {
		content.WriteString(labelStyle.Render(titleCaser.String(p.Title)) + "\n")
		for _, step := range p.Steps {
			line := wordwrap.String(step.Text, max(width-2, 10))
			if first, _, found := strings.Cut(line, "\n"); found {
				line = first + "…"
			}
			if step.Key == currentKey {
				content.WriteString(currentStepStyle.Render("▶ "+line) + "\n")
			} else {
				content.WriteString("• " + line + "\n")
			}
		}
		if len(p.Recommended) > 0 {
			content.WriteString("\nRecommended:\n")
			for _, r := range p.Recommended {
				content.WriteString("• " + describeRequirement(r.Name, r.Threshold(), r.Highlight) + "\n")
			}
		}
		content.WriteString("\n")
	}

	if s != nil {
		content.WriteString("Session:\n")
		content.WriteString(s.ID.String()[:8] + "...\n\n")

		content.WriteString("Inventory:\n")
		if len(s.Inventory) == 0 {
			content.WriteString("Nothing reported\n")
		}
		for id, n := range s.Inventory {
			content.WriteString(fmt.Sprintf("• %d x%d\n", id, n))
		}
		content.WriteString("\nPosition:\n" + describeLocation(s.Location) + "\n")
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+N / Ctrl+P: Stage\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m *ConsoleUI) refreshContent() {
	m.guideViewport.SetContent(writeGuide(m.step, m.guideViewport.Width-6))
	currentKey := ""
	if m.step != nil {
		currentKey = m.step.Step.Key
	}
	m.metaViewport.SetContent(writeMetadata(m.session, m.panels, currentKey, m.metaViewport.Width))
}

func (m *ConsoleUI) resize() {
	guideWidth := int(float64(m.width)*0.6) - 4
	metaWidth := m.width - guideWidth - 6

	m.guideViewport.Width = guideWidth - 2
	m.guideViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(guideWidth - 4)
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showQuestModal {
		return m.loadQuests()
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuestModal {
		return m.updateQuestModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.guideViewport, vpCmd = m.guideViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refreshContent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlN:
			return m.changeStage(1)
		case tea.KeyCtrlP:
			return m.changeStage(-1)
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			if input == "" {
				return m, nil
			}
			return m.handleCommand(input)
		}

	case stepMsg:
		m.loading = false
		if msg.err != nil {
			m.status = errorStyle.Render("Error: " + msg.err.Error())
			return m, nil
		}
		m.step = msg.step
		m.status = msg.note
		m.refreshContent()
		return m, m.refreshSession()

	case sessionMsg:
		if msg.err == nil && msg.session != nil {
			m.session = msg.session
			m.refreshContent()
		}

	case sseEventMsg:
		if !msg.ok {
			return m, nil
		}
		if msg.event.Type == "connected" {
			return m, m.waitForEvent()
		}
		// Another client moved the session; pull the new step
		return m, tea.Batch(m.fetchStep(""), m.waitForEvent())
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.guideViewport, vpCmd = m.guideViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) changeStage(delta int) (tea.Model, tea.Cmd) {
	if m.step == nil || m.quest == nil || m.loading {
		return m, nil
	}
	next := m.step.Stage + delta
	if _, ok := m.quest.Stage(next); !ok {
		m.status = promptStyle.Render(fmt.Sprintf("No stage %d", next))
		return m, nil
	}
	m.loading = true
	return m, m.setStage(next)
}

// consoleCommand is a parsed slash command.
type consoleCommand struct {
	name     string
	stage    int
	item     items.ID
	quantity int
	point    world.Point
	text     string
}

func parseCommand(input string) (consoleCommand, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return consoleCommand{}, fmt.Errorf("commands start with /, try /help")
	}
	cmd := consoleCommand{name: strings.ToLower(strings.TrimPrefix(fields[0], "/"))}
	args := fields[1:]

	ints := func(n int) ([]int, error) {
		out := make([]int, 0, len(args))
		for _, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("/%s: %q is not a number", cmd.name, a)
			}
			out = append(out, v)
		}
		if len(out) < n {
			return nil, fmt.Errorf("/%s needs %d numbers", cmd.name, n)
		}
		return out, nil
	}

	switch cmd.name {
	case "help", "next", "prev", "copy", "here", "quit":
	case "stage":
		v, err := ints(1)
		if err != nil {
			return cmd, err
		}
		cmd.stage = v[0]
	case "add", "remove":
		v, err := ints(1)
		if err != nil {
			return cmd, err
		}
		cmd.item = items.ID(v[0])
		cmd.quantity = 1
		if len(v) > 1 {
			cmd.quantity = v[1]
		}
		if cmd.quantity <= 0 {
			return cmd, fmt.Errorf("/%s: quantity must be positive", cmd.name)
		}
	case "at":
		v, err := ints(2)
		if err != nil {
			return cmd, err
		}
		cmd.point = world.Point{X: v[0], Y: v[1]}
		if len(v) > 2 {
			cmd.point.Plane = v[2]
		}
	case "dialog":
		cmd.text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), fields[0]))
	default:
		return cmd, fmt.Errorf("unknown command /%s, try /help", cmd.name)
	}
	return cmd, nil
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd, err := parseCommand(input)
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return m, nil
	}

	switch cmd.name {
	case "help":
		m.guideViewport.SetContent(titleStyle.Render("Help:") + `

Commands:
• /next, /prev, /stage N - Report the quest stage
• /add ID [QTY] - Report picking up an item
• /remove ID [QTY] - Report losing an item
• /at X Y [PLANE] - Report the player's tile
• /here - Forget the reported tile
• /dialog TEXT - Report the open dialog text (empty to close)
• /copy - Copy the current instruction
• Ctrl+N / Ctrl+P - Next / previous stage
• Ctrl+C - Quit
`)
		return m, nil
	case "quit":
		m.showQuitModal = true
		return m, nil
	case "next":
		return m.changeStage(1)
	case "prev":
		return m.changeStage(-1)
	case "stage":
		m.loading = true
		return m, m.setStage(cmd.stage)
	case "copy":
		if m.step == nil {
			return m, nil
		}
		if err := clipboard.WriteAll(m.step.Step.Text); err != nil {
			m.status = errorStyle.Render("Copy failed: " + err.Error())
		} else {
			m.status = promptStyle.Render("Instruction copied")
		}
		return m, nil
	}

	var delta state.PlayerDelta
	switch cmd.name {
	case "add":
		delta.Add = map[items.ID]int{cmd.item: cmd.quantity}
	case "remove":
		delta.Remove = map[items.ID]int{cmd.item: cmd.quantity}
	case "at":
		p := cmd.point
		delta.Location = &p
	case "here":
		delta.ClearLocation = true
	case "dialog":
		text := cmd.text
		delta.Dialog = &text
	}
	m.loading = true
	return m, m.updatePlayer(delta)
}

func (m ConsoleUI) loadQuests() tea.Cmd {
	return func() tea.Msg {
		names, questMap, err := listQuests(m.client, m.config.APIBaseURL)
		return questsLoadedMsg{names, questMap, err}
	}
}

func (m ConsoleUI) startSession(questID string) tea.Cmd {
	return func() tea.Msg {
		q, err := getQuest(m.client, m.config.APIBaseURL, questID)
		if err != nil {
			return sessionCreatedMsg{err: err}
		}
		panels, err := getPanels(m.client, m.config.APIBaseURL, questID)
		if err != nil {
			return sessionCreatedMsg{err: err}
		}
		s, err := createSession(m.client, m.config.APIBaseURL, questID)
		if err != nil {
			return sessionCreatedMsg{err: err}
		}
		step, err := getStep(m.client, m.config.APIBaseURL, s.ID)
		if err != nil {
			return sessionCreatedMsg{err: err}
		}
		return sessionCreatedMsg{session: s, quest: q, panels: panels, step: step}
	}
}

func (m ConsoleUI) setStage(stage int) tea.Cmd {
	id := m.session.ID
	return func() tea.Msg {
		step, err := setStage(m.client, m.config.APIBaseURL, id, stage)
		return stepMsg{step: step, err: err}
	}
}

func (m ConsoleUI) updatePlayer(delta state.PlayerDelta) tea.Cmd {
	id := m.session.ID
	before := ""
	if m.step != nil {
		before = m.step.Step.Key
	}
	return func() tea.Msg {
		step, err := updatePlayer(m.client, m.config.APIBaseURL, id, delta)
		if err != nil {
			return stepMsg{err: err}
		}
		note := ""
		if step.Step.Key != before {
			note = highlightStyle.Render("Step changed")
		}
		return stepMsg{step: step, note: note}
	}
}

func (m ConsoleUI) fetchStep(note string) tea.Cmd {
	id := m.session.ID
	return func() tea.Msg {
		step, err := getStep(m.client, m.config.APIBaseURL, id)
		return stepMsg{step: step, note: note, err: err}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	id := m.session.ID
	return func() tea.Msg {
		s, err := getSession(m.client, m.config.APIBaseURL, id)
		return sessionMsg{s, err}
	}
}

// listen runs the SSE client until the console exits.
func (m ConsoleUI) listen() tea.Cmd {
	id := m.session.ID
	stream := m.stream
	return func() tea.Msg {
		// Stream errors only mean live updates stop; the console keeps working
		_ = listenToSSE(stream.ctx, &http.Client{}, m.config.APIBaseURL, id, stream.events)
		return nil
	}
}

func (m ConsoleUI) waitForEvent() tea.Cmd {
	stream := m.stream
	return func() tea.Msg {
		select {
		case ev := <-stream.events:
			return sseEventMsg{event: ev, ok: true}
		case <-stream.ctx.Done():
			return sseEventMsg{}
		}
	}
}

func (m ConsoleUI) updateQuestModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case questsLoadedMsg:
		m.loadingQuests = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.questNames = msg.names
			m.questMap = msg.questMap
		}

	case sessionCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.quest = msg.quest
		m.panels = msg.panels
		m.step = msg.step
		m.showQuestModal = false
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.refreshContent()
		m.textarea.Focus()
		m.ready = true
		return m, tea.Batch(textarea.Blink, m.listen(), m.waitForEvent())

	case tea.KeyMsg:
		if m.loadingQuests || m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			m.showQuestModal = false
			return m, nil
		case tea.KeyUp:
			if m.selectedQuest > 0 {
				m.selectedQuest--
			}
		case tea.KeyDown:
			if m.selectedQuest < len(m.questNames)-1 {
				m.selectedQuest++
			}
		case tea.KeyEnter:
			if len(m.questNames) > 0 && !m.loading {
				m.loading = true
				return m, m.startSession(m.questMap[m.questNames[m.selectedQuest]])
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, m.quit()
		default:
			switch msg.String() {
			case "y", "Y":
				return m, m.quit()
			case "n", "N":
				m.showQuitModal = false
				if m.session == nil {
					m.showQuestModal = true
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

// quit ends the session on the server before exiting.
func (m ConsoleUI) quit() tea.Cmd {
	if m.session == nil {
		return tea.Quit
	}
	id := m.session.ID
	return tea.Sequence(func() tea.Msg {
		_ = endSession(m.client, m.config.APIBaseURL, id)
		return nil
	}, tea.Quit)
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to stop following this quest?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuestModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingQuests {
		content.WriteString(modalTitleStyle.Render("Loading Quests..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch available quests..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to start: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if m.loading {
		content.WriteString(modalTitleStyle.Render("Starting Session..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Loading the quest guide..."))
	} else {
		content.WriteString(modalTitleStyle.Render("Select a Quest"))
		content.WriteString("\n\n")

		for i, name := range m.questNames {
			if i == m.selectedQuest {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", name)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", name)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuestModal {
		return m.renderQuestModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	guideWidth := int(float64(m.width)*0.6) - 4
	metaWidth := m.width - guideWidth - 6

	status := m.status
	if m.loading {
		status = loadingStyle.Render("Updating...")
	}

	guidePanel := guidePanelStyle.Width(guideWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.guideViewport.View(),
			status,
			separatorStyle.Render(strings.Repeat("─", max(guideWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, guidePanel, metaPanel)
}
