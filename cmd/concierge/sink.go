package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openlistings/concierge/internal/leadgate"
	"github.com/openlistings/concierge/internal/session"
)

type transcriptMsg struct{ entry session.Entry }

type workingMsg struct {
	working bool
	phrase  string
}

type leadFormMsg struct{ prefill leadgate.Prefill }

type leadFormHiddenMsg struct{}

type sessionEndedMsg struct{}

type sessionResetMsg struct{ conversationID string }

type sendFinishedMsg struct{ err error }

type leadSubmitMsg struct{ err error }

// programSink bridges controller callbacks onto the Bubble Tea loop. The
// program is attached after construction because the model needs the
// controller and the controller needs the sink.
type programSink struct {
	mu sync.Mutex
	p  *tea.Program
}

func (s *programSink) attach(p *tea.Program) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *programSink) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (s *programSink) TranscriptAppended(e session.Entry) { s.send(transcriptMsg{entry: e}) }

func (s *programSink) WorkingChanged(working bool, phrase string) {
	s.send(workingMsg{working: working, phrase: phrase})
}

func (s *programSink) LeadFormShown(prefill leadgate.Prefill) {
	s.send(leadFormMsg{prefill: prefill})
}

func (s *programSink) LeadFormHidden() { s.send(leadFormHiddenMsg{}) }

func (s *programSink) SessionEnded() { s.send(sessionEndedMsg{}) }

func (s *programSink) SessionReset(conversationID string) {
	s.send(sessionResetMsg{conversationID: conversationID})
}
