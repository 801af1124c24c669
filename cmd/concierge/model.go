package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openlistings/concierge/internal/lead"
	"github.com/openlistings/concierge/internal/leadgate"
	"github.com/openlistings/concierge/internal/rating"
	"github.com/openlistings/concierge/internal/render"
	"github.com/openlistings/concierge/internal/session"
)

type mode int

const (
	modeChat mode = iota
	modeLeadForm
	modeRating
	modeDone
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	systemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cardStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
	priceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	formStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const formFieldCount = 4

const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldTime
)

// leadFormState is the on-screen contact form. Locked fields came from
// the backend profile and are skipped during focus cycling.
type leadFormState struct {
	inputs  [formFieldCount]textinput.Model
	locked  [formFieldCount]bool
	method  string
	summary string
	focus   int
}

type chatModel struct {
	ctrl *session.Controller

	input textinput.Model
	spin  spinner.Model

	mode       mode
	transcript []string
	working    bool
	phrase     string
	form       *leadFormState
	ratingVal  float64
	status     string
	width      int
}

func newChatModel(ctrl *session.Controller) chatModel {
	in := textinput.New()
	in.Placeholder = "Ask about listings, pricing, or showings"
	in.Prompt = "You> "
	in.Focus()
	in.CharLimit = 0
	in.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return chatModel{
		ctrl:      ctrl,
		input:     in,
		spin:      s,
		mode:      modeChat,
		ratingVal: 5,
	}
}

func (m chatModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			return m, resetCmd(m.ctrl)
		}
		switch m.mode {
		case modeLeadForm:
			return m.updateLeadForm(msg)
		case modeRating:
			return m.updateRating(msg)
		case modeDone:
			return m, nil
		default:
			return m.updateChat(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case transcriptMsg:
		m.transcript = append(m.transcript, renderEntry(msg.entry, m.width))
		return m, nil

	case workingMsg:
		m.working = msg.working
		m.phrase = msg.phrase
		return m, nil

	case leadFormMsg:
		m.form = newLeadFormState(msg.prefill)
		m.mode = modeLeadForm
		m.status = ""
		return m, nil

	case leadFormHiddenMsg:
		m.form = nil
		if m.mode == modeLeadForm {
			m.mode = modeChat
			m.input.Focus()
		}
		return m, nil

	case sessionEndedMsg:
		m.form = nil
		m.working = false
		if _, rated := m.ctrl.Rating(); rated {
			m.mode = modeDone
		} else {
			m.mode = modeRating
		}
		return m, nil

	case sessionResetMsg:
		m.transcript = nil
		m.form = nil
		m.working = false
		m.mode = modeChat
		m.ratingVal = 5
		m.status = "New conversation started."
		m.input.Reset()
		m.input.Focus()
		return m, nil

	case sendFinishedMsg:
		if msg.err != nil {
			m.status = sendErrorStatus(msg.err)
		}
		return m, nil

	case leadSubmitMsg:
		if msg.err != nil {
			m.status = errStyle.Render(submitErrorText(msg.err))
		}
		return m, nil
	}

	return m, nil
}

func (m chatModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		m.status = ""
		return m, sendCmd(m.ctrl, text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) updateLeadForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.mode = modeChat
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.ctrl.DismissLeadForm()
		return m, nil
	case "tab", "down":
		f.advance(1)
		return m, nil
	case "shift+tab", "up":
		f.advance(-1)
		return m, nil
	case "ctrl+t":
		if f.method == leadgate.MethodEmail {
			f.method = leadgate.MethodText
		} else {
			f.method = leadgate.MethodEmail
		}
		return m, nil
	case "enter":
		if f.focus < formFieldCount-1 {
			f.advance(1)
			return m, nil
		}
		return m, submitLeadCmd(m.ctrl, session.LeadForm{
			Name:          f.inputs[fieldName].Value(),
			Email:         f.inputs[fieldEmail].Value(),
			Phone:         f.inputs[fieldPhone].Value(),
			ContactMethod: f.method,
			PreferredTime: f.inputs[fieldTime].Value(),
		})
	}

	if !f.locked[f.focus] {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m chatModel) updateRating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if m.ratingVal > rating.Min {
			m.ratingVal -= rating.Step
		}
		return m, nil
	case "right", "l":
		if m.ratingVal < rating.Max {
			m.ratingVal += rating.Step
		}
		return m, nil
	case "enter":
		if err := m.ctrl.Rate(m.ratingVal); err != nil {
			m.status = errStyle.Render(err.Error())
			return m, nil
		}
		m.mode = modeDone
		return m, nil
	}
	return m, nil
}

func (m chatModel) View() string {
	var b strings.Builder

	b.WriteString(dimStyle.Render("Concierge  ·  conversation "+shortID(m.ctrl.ConversationID())) + "\n\n")

	for _, line := range m.transcript {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.working {
		phrase := m.phrase
		if phrase == "" {
			phrase = "Working on it"
		}
		b.WriteString(m.spin.View() + dimStyle.Render(phrase+"…") + "\n")
	}

	if m.status != "" {
		b.WriteString(m.status + "\n")
	}

	switch m.mode {
	case modeLeadForm:
		b.WriteString("\n" + m.form.view() + "\n")
		b.WriteString(dimStyle.Render("tab: next field · ctrl+t: toggle contact method · enter: submit · esc: dismiss") + "\n")
	case modeRating:
		b.WriteString("\n" + m.ratingView() + "\n")
		b.WriteString(dimStyle.Render("←/→ adjust · enter: submit · ctrl+r: new conversation") + "\n")
	case modeDone:
		if v, ok := m.ctrl.Rating(); ok {
			b.WriteString("\n" + systemStyle.Render(fmt.Sprintf("Thanks for the %.1f-star rating!", v)) + "\n")
		} else {
			b.WriteString("\n" + systemStyle.Render("This conversation has ended.") + "\n")
		}
		b.WriteString(dimStyle.Render("ctrl+r: new conversation · ctrl+c: quit") + "\n")
	default:
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(dimStyle.Render("enter: send · ctrl+r: new conversation · ctrl+c: quit") + "\n")
	}

	return b.String()
}

func (m chatModel) ratingView() string {
	steps := int(m.ratingVal * 2)
	var stars strings.Builder
	for i := 0; i < 5; i++ {
		switch {
		case steps >= (i+1)*2:
			stars.WriteString("★")
		case steps == i*2+1:
			stars.WriteString("⯨")
		default:
			stars.WriteString("☆")
		}
	}
	return fmt.Sprintf("How did we do?  %s  %.1f / 5",
		starStyle.Render(stars.String()), m.ratingVal)
}

func newLeadFormState(p leadgate.Prefill) *leadFormState {
	f := &leadFormState{method: p.Method, summary: p.Summary}

	labels := [formFieldCount]string{"Name", "Email", "Phone", "Preferred time"}
	values := [formFieldCount]string{p.Name, p.Email, p.Phone, ""}
	f.locked = [formFieldCount]bool{false, p.EmailLocked, p.PhoneLocked, false}

	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-15s ", labels[i]+":")
		in.SetValue(values[i])
		in.Width = 40
		f.inputs[i] = in
	}

	f.focus = f.firstEditable()
	f.inputs[f.focus].Focus()
	return f
}

// advance moves focus by delta, skipping locked fields.
func (f *leadFormState) advance(delta int) {
	f.inputs[f.focus].Blur()
	for i := 0; i < formFieldCount; i++ {
		f.focus = (f.focus + delta + formFieldCount) % formFieldCount
		if !f.locked[f.focus] {
			break
		}
	}
	f.inputs[f.focus].Focus()
}

func (f *leadFormState) firstEditable() int {
	for i := range f.inputs {
		if !f.locked[i] {
			return i
		}
	}
	return 0
}

func (f *leadFormState) view() string {
	var b strings.Builder
	b.WriteString(systemStyle.Render(f.summary) + "\n\n")
	for i, in := range f.inputs {
		line := in.View()
		if f.locked[i] {
			line = lockedStyle.Render(line + "  (on file)")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(dimStyle.Render("Contact method: ") + f.method)
	return formStyle.Render(b.String())
}

func renderEntry(e session.Entry, width int) string {
	switch e.Role {
	case session.RoleUser:
		return userStyle.Render("You: ") + e.Text
	case session.RoleSystem:
		return systemStyle.Render(e.Text)
	default:
		if e.Message == nil {
			return assistantStyle.Render("Concierge: ") + e.Text
		}
		return renderMessage(*e.Message, width)
	}
}

func renderMessage(msg render.Message, width int) string {
	var parts []string
	for i, p := range msg.Paragraphs {
		if i == 0 {
			parts = append(parts, assistantStyle.Render("Concierge: ")+p)
		} else {
			parts = append(parts, p)
		}
	}
	if len(msg.Paragraphs) == 0 && (len(msg.Listings) > 0 || len(msg.Images) > 0) {
		parts = append(parts, assistantStyle.Render("Concierge:"))
	}
	for _, l := range msg.Listings {
		parts = append(parts, renderListing(l, width))
	}
	for _, img := range msg.Images {
		parts = append(parts, dimStyle.Render("🖼  "+img.Alt+"  ("+img.Src+")"))
	}
	return strings.Join(parts, "\n")
}

func renderListing(l render.ListingCard, width int) string {
	var b strings.Builder
	b.WriteString(priceStyle.Render(l.Price) + "\n")
	b.WriteString(l.Address + "\n")
	b.WriteString(fmt.Sprintf("%s bd · %s ba · %s sqft", l.Beds, l.Baths, l.Sqft))
	if l.Link != "" {
		b.WriteString("\n" + dimStyle.Render(l.Link))
	}
	card := cardStyle
	if width > 4 && width < 60 {
		card = card.Width(width - 4)
	}
	return card.Render(b.String())
}

func sendCmd(ctrl *session.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return sendFinishedMsg{err: ctrl.Send(context.Background(), text)}
	}
}

func submitLeadCmd(ctrl *session.Controller, form session.LeadForm) tea.Cmd {
	return func() tea.Msg {
		return leadSubmitMsg{err: ctrl.SubmitLead(context.Background(), form)}
	}
}

func resetCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Reset()
		return nil
	}
}

func sendErrorStatus(err error) string {
	switch {
	case errors.Is(err, session.ErrReplyPending):
		return dimStyle.Render("Hold on, a reply is still on the way.")
	case errors.Is(err, session.ErrSessionEnded):
		return dimStyle.Render("This conversation has ended. Press ctrl+r to start a new one.")
	case errors.Is(err, session.ErrEmptyMessage):
		return ""
	default:
		return errStyle.Render(err.Error())
	}
}

func submitErrorText(err error) string {
	switch {
	case errors.Is(err, lead.ErrInvalidName):
		return "Please enter your name."
	case errors.Is(err, lead.ErrMissingContact):
		return "Please provide an email or phone number."
	default:
		return "Couldn't submit right now. Please try again."
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
