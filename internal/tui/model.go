package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
	"docqa/internal/keywords"
)

// QAPort is the TUI-facing subset of the QA service.
type QAPort interface {
	Ask(question string) domain.Answer
}

// DocumentLoadedMsg replaces the header after the active document changed.
type DocumentLoadedMsg struct {
	Document domain.Document
	Overview string
}

// ReloadFailedMsg reports a failed reload; the previous document stays active.
type ReloadFailedMsg struct {
	Err error
}

type answerMsg struct {
	question string
	answer   domain.Answer
}

type exchange struct {
	question string
	answer   domain.Answer
}

// Model is the Bubble Tea model for the chat UI.
type Model struct {
	service    QAPort
	input      textinput.Model
	viewport   viewport.Model
	doc        domain.Document
	overview   string
	transcript []exchange
	status     string
	pending    bool
	ready      bool
	width      int
	height     int
}

// New creates a chat model for doc.
func New(service QAPort, doc domain.Document, overview string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, doc: doc, overview: overview, status: "Ready."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and service events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.refresh()
		return m, nil
	case DocumentLoadedMsg:
		m.doc, m.overview = msg.Document, msg.Overview
		m.status = fmt.Sprintf("Document reloaded: %s", msg.Document.Name)
		if m.ready {
			m.layout()
		}
		return m, nil
	case ReloadFailedMsg:
		m.status = "Reload failed: " + msg.Err.Error()
		return m, nil
	case answerMsg:
		m.pending = false
		m.transcript = append(m.transcript, exchange(msg))
		m.status = fmt.Sprintf("Answered (%s).", msg.answer.Intent)
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.pending {
				return m, nil
			}
			m.input.Reset()
			m.pending = true
			m.status = "Thinking..."
			return m, m.ask(q)
		case tea.KeyUp:
			m.viewport.LineUp(1)
			return m, nil
		case tea.KeyDown:
			m.viewport.LineDown(1)
			return m, nil
		case tea.KeyPgUp:
			m.viewport.ViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.viewport.ViewDown()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(question string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		return answerMsg{question: question, answer: svc.Ask(question)}
	}
}

// View renders the header, transcript, question box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render(fmt.Sprintf("%s  (%d %s)", m.doc.Name, m.doc.TotalPages, pagesWord(m.doc.TotalPages)))
	overview := m.renderOverview()
	body := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + overview + "\n" + body + "\n" + input + "\n" + status
}

// layout sizes the transcript to what the header, the wrapped overview, the
// question box and the status line leave free.
func (m *Model) layout() {
	_, th := transcriptBoxStyle.GetFrameSize()
	_, qh := queryBoxStyle.GetFrameSize()
	reserved := 1 + lipgloss.Height(m.renderOverview()) + qh + 1 + 1 // header, overview, input, status, spacer
	m.viewport.Width = max(20, m.width)
	m.viewport.Height = max(3, m.height-reserved-th)
}

func (m Model) renderOverview() string {
	return dimStyle.Width(max(20, m.width)).Render(m.overview)
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, ex := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		b.WriteString(ex.answer.Text)
		terms := keywords.Extract(ex.question).Singles
		for n, src := range ex.answer.Sources {
			b.WriteString("\n")
			b.WriteString(renderSource(n+1, src, terms))
		}
	}
	return b.String()
}

func renderSource(n int, src domain.Source, terms []string) string {
	label := sourceStyle.Render(fmt.Sprintf("[%d] Page %d · %s", n, src.Page, src.Section))
	return label + " — " + highlightTerms(src.Snippet, terms)
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle        = lipgloss.NewStyle().Bold(true)
	dimStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	wordRe             = regexp.MustCompile(`\p{L}+|\p{N}+`)
)

// highlightTerms emphasises words of text that are among terms.
func highlightTerms(text string, terms []string) string {
	if len(terms) == 0 {
		return text
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return wordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := set[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}

func pagesWord(n int) string {
	if n == 1 {
		return "page"
	}
	return "pages"
}
