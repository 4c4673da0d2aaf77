package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"antar/internal/app"
	"antar/internal/colour"
	"antar/internal/models"
)

type FocusState int

const (
	FocusSidebar FocusState = iota
	FocusChat
)

// promptMode tracks which inline prompt, if any, is capturing input.
type promptMode int

const (
	promptNone promptMode = iota
	promptPersonaName
	promptPersonaColour
	promptRename
)

// Model represents the main application state
type Model struct {
	viewport     viewport.Model
	textarea     textarea.Model
	prompt       textinput.Model
	chatList     list.Model
	state        *app.State
	focus        FocusState
	mode         promptMode
	pendingName  string
	status       string
	ready        bool
	width        int
	height       int
	sidebarWidth int
}

// NewModel creates a new UI model over loaded application state.
func NewModel(state *app.State) *Model {
	ta := textarea.New()
	ta.Placeholder = "Add message ..."
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false
	ta.Focus()

	ti := textinput.New()
	ti.CharLimit = 100

	vp := viewport.New(50, 20)

	chatList := list.New(nil, list.NewDefaultDelegate(), 30, 20)
	chatList.Title = "Chats"
	chatList.SetShowStatusBar(false)
	chatList.SetFilteringEnabled(false)
	chatList.SetShowHelp(false)

	m := &Model{
		textarea:     ta,
		prompt:       ti,
		viewport:     vp,
		chatList:     chatList,
		state:        state,
		focus:        FocusChat,
		sidebarWidth: 30,
	}
	m.refreshChatList()
	m.syncDraftInput()
	m.refreshViewport()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tea.EnterAltScreen)
}

// Update handles UI events and state changes
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		clCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chatWidth := msg.Width - m.sidebarWidth - 2
		chatHeight := msg.Height - 8

		if !m.ready {
			m.viewport = viewport.New(chatWidth, chatHeight)
			m.ready = true
		} else {
			m.viewport.Width = chatWidth
			m.viewport.Height = chatHeight
		}
		m.textarea.SetWidth(chatWidth - 2)
		m.chatList.SetSize(m.sidebarWidth-2, chatHeight+5)
		m.refreshViewport()

	case tea.KeyMsg:
		if m.mode != promptNone {
			return m.updatePrompt(msg)
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyTab:
			if m.focus == FocusSidebar {
				m.focus = FocusChat
				m.textarea.Focus()
			} else {
				m.focus = FocusSidebar
				m.textarea.Blur()
			}

		case tea.KeyCtrlN:
			m.state.NewChat()
			m.refreshChatList()
			m.syncDraftInput()
			m.refreshViewport()
			m.focus = FocusChat
			m.textarea.Focus()

		case tea.KeyCtrlD:
			if m.state.DeleteActiveChat() {
				m.refreshChatList()
				m.syncDraftInput()
				m.refreshViewport()
			}

		case tea.KeyCtrlR:
			if chat, ok := m.state.ActiveChat(); ok {
				m.mode = promptRename
				m.prompt.Placeholder = "Chat name"
				m.prompt.SetValue(chat.Name)
				m.prompt.Focus()
				m.textarea.Blur()
			}

		case tea.KeyCtrlP:
			m.mode = promptPersonaName
			m.prompt.Placeholder = "Persona name"
			m.prompt.SetValue("")
			m.prompt.Focus()
			m.textarea.Blur()

		case tea.KeyEnter:
			// handled here in full: falling through would feed the
			// Enter to the textarea and leave a newline in the draft
			if m.focus == FocusSidebar {
				if selected, ok := m.chatList.SelectedItem().(*models.Chat); ok {
					if err := m.state.SetActiveChat(selected.ID); err != nil {
						// stale row, ignore
						return m, nil
					}
					m.syncDraftInput()
					m.refreshViewport()
					m.focus = FocusChat
					m.textarea.Focus()
				}
				return m, nil
			}
			if text := strings.TrimSpace(m.textarea.Value()); text != "" {
				m.state.SetDraft(text)
				if _, sent := m.state.SendMessage(); sent {
					m.textarea.Reset()
					m.refreshChatList()
					m.refreshViewport()
				}
			}
			return m, nil

		default:
			switch msg.String() {
			case "alt+]":
				m.cyclePersona(models.Next)
			case "alt+[":
				m.cyclePersona(models.Prev)
			}
		}
	}

	// Update child components
	if m.focus == FocusChat && m.mode == promptNone {
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.state.SetDraft(m.textarea.Value())
	}
	if m.focus == FocusSidebar {
		m.chatList, clCmd = m.chatList.Update(msg)
	}
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, clCmd)
}

// updatePrompt handles key events while an inline prompt is open.
func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		m.closePrompt()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.prompt.Value())
		switch m.mode {
		case promptRename:
			if value != "" {
				m.state.RenameActiveChat(value)
				m.refreshChatList()
			}
			m.closePrompt()

		case promptPersonaName:
			m.pendingName = value
			m.mode = promptPersonaColour
			m.prompt.Placeholder = "#RRGGBB"
			m.prompt.SetValue("")

		case promptPersonaColour:
			c, err := colour.ParseHex(value)
			if err != nil {
				c = app.DefaultPersonaColour
				m.status = fmt.Sprintf("invalid colour %q, using %s", value, c.Hex())
			}
			id := m.state.AddPersona(m.pendingName, c)
			if _, err := m.state.AddPersonaToActiveChat(id); err == nil {
				m.refreshViewport()
			}
			m.closePrompt()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = promptNone
	m.pendingName = ""
	m.prompt.Blur()
	m.prompt.SetValue("")
	if m.focus == FocusChat {
		m.textarea.Focus()
	}
}

func (m *Model) cyclePersona(dir models.Direction) {
	if _, ok := m.state.CycleActivePersona(dir); ok {
		m.refreshViewport()
	}
}

// syncDraftInput mirrors the active chat's draft into the textarea,
// used whenever the active chat changes.
func (m *Model) syncDraftInput() {
	m.textarea.Reset()
	if chat, ok := m.state.ActiveChat(); ok {
		m.textarea.SetValue(chat.Draft)
	}
}

func (m *Model) refreshChatList() {
	chats := m.state.Chats.All()
	items := make([]list.Item, len(chats))
	for i, chat := range chats {
		items[i] = chat
	}
	m.chatList.SetItems(items)

	if activeID, ok := m.state.Chats.ActiveID(); ok {
		for i, chat := range chats {
			if chat.ID == activeID {
				m.chatList.Select(i)
				break
			}
		}
	}
}

func (m *Model) refreshViewport() {
	var content strings.Builder

	chat, ok := m.state.ActiveChat()
	if !ok || chat.Messages.Len() == 0 {
		content.WriteString("Start typing to talk as your active persona.\n\n")
		content.WriteString(HelpStyle.Render("Controls:\n"))
		content.WriteString(HelpStyle.Render("• Tab - Switch between sidebar and chat\n"))
		content.WriteString(HelpStyle.Render("• Enter - Send message / Select chat\n"))
		content.WriteString(HelpStyle.Render("• Ctrl+N / Ctrl+D - New / Delete chat\n"))
		content.WriteString(HelpStyle.Render("• Ctrl+P - Add persona, Ctrl+R - Rename chat\n"))
		content.WriteString(HelpStyle.Render("• Alt+] / Alt+[ - Next / Previous persona\n"))
		content.WriteString(HelpStyle.Render("• Ctrl+C / Esc - Quit\n\n"))
	} else {
		var prevSender uuid.UUID
		for _, msg := range chat.Messages.All() {
			persona, ok := m.state.PersonaFor(msg.SenderID)
			if !ok {
				// dangling sender, skip rather than fail
				continue
			}

			var block strings.Builder
			if msg.SenderID != prevSender {
				block.WriteString(personaNameStyle(persona).Render(persona.Name))
				block.WriteString("\n")
			}
			block.WriteString(bubbleStyle(persona).Render(msg.Text))
			block.WriteString("\n")

			content.WriteString(MessageStyle.Render(block.String()))
			content.WriteString("\n")
			prevSender = msg.SenderID
		}
	}

	if m.status != "" {
		content.WriteString(ErrorStyle.Render(m.status) + "\n")
		m.status = ""
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoBottom()
}

// personaNameStyle colours the sender header with the persona colour.
func personaNameStyle(p models.Persona) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Colour.Hex())).
		Bold(true)
}

// bubbleStyle renders a message bubble: persona colour behind its
// contrast foreground.
func bubbleStyle(p models.Persona) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(p.Colour.Hex())).
		Foreground(lipgloss.Color(p.Colour.Foreground().Hex())).
		Padding(0, 1)
}

// personaBar renders the personas added to the active chat, marking
// the one currently composing.
func (m Model) personaBar() string {
	chat, ok := m.state.ActiveChat()
	if !ok {
		return ""
	}

	var parts []string
	for _, id := range chat.AddedPersonaIDs {
		persona, ok := m.state.PersonaFor(id)
		if !ok {
			continue
		}
		label := bubbleStyle(persona).Render(persona.Name)
		if id == chat.ActivePersonaID {
			label = ActiveMarkerStyle.Render("▸") + label
		} else {
			label = " " + label
		}
		parts = append(parts, label)
	}
	return PersonaBarStyle.Render(strings.Join(parts, " "))
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	sidebarContent := m.chatList.View()
	var sidebar string
	if m.focus == FocusSidebar {
		sidebar = SidebarFocusedStyle.Width(m.sidebarWidth).Height(m.height - 1).Render(sidebarContent)
	} else {
		sidebar = SidebarStyle.Width(m.sidebarWidth).Height(m.height - 1).Render(sidebarContent)
	}

	chatWidth := m.width - m.sidebarWidth - 2

	header := "Antar"
	if chat, ok := m.state.ActiveChat(); ok {
		header = chat.Name
	}
	chatHeader := TitleStyle.Width(chatWidth).Render(header)

	footer := m.personaBar()
	if m.mode != promptNone {
		footer = PromptStyle.Render(m.promptLabel()+" ") + m.prompt.View()
	}

	chatArea := ChatStyle.Width(chatWidth).Render(
		fmt.Sprintf("%s\n%s\n%s\n%s", chatHeader, m.viewport.View(), m.textarea.View(), footer),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, chatArea)
}

func (m Model) promptLabel() string {
	switch m.mode {
	case promptPersonaName:
		return "New persona name:"
	case promptPersonaColour:
		return "Persona colour:"
	case promptRename:
		return "Rename chat:"
	}
	return ""
}
