// Package session owns conversation identity and the send/stream/render
// cycle of one widget session. States move Idle -> AwaitingReply -> Idle
// until the session ends; lead-form visibility and submission are
// orthogonal flags on top.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openlistings/concierge/internal/api"
	"github.com/openlistings/concierge/internal/lead"
	"github.com/openlistings/concierge/internal/leadgate"
	"github.com/openlistings/concierge/internal/protocol"
	"github.com/openlistings/concierge/internal/rating"
	"github.com/openlistings/concierge/internal/render"
	"github.com/openlistings/concierge/pkg/logging"
)

// State of the conversation loop.
type State int

const (
	StateIdle State = iota
	StateAwaitingReply
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyMessage is returned when the outgoing message is blank.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrReplyPending rejects a send while one is already in flight.
	ErrReplyPending = errors.New("a reply is already pending")

	// ErrSessionEnded rejects sends and lead submissions after the
	// session has ended.
	ErrSessionEnded = errors.New("session has ended")

	// ErrLeadAlreadySubmitted blocks resubmission within a session.
	ErrLeadAlreadySubmitted = errors.New("lead already submitted")
)

// Apology shown when a turn fails in transport. Conversation id, profile,
// and lead state are left untouched on this path.
const apologyMessage = "Sorry, something went wrong. Please try again."

const leadConfirmationFormat = "Thanks %s! We'll reach out at %s shortly."

// Role identifies who a transcript entry belongs to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Entry is one transcript item. Assistant entries carry structured
// content; user and system entries are plain text.
type Entry struct {
	Role    Role
	Text    string
	Message *render.Message
	At      time.Time
}

// LeadMeta is the routing context captured when the form was surfaced,
// folded into the eventual submission.
type LeadMeta struct {
	Intent  string
	Urgency string
	Summary string
}

// LeadForm is what the visitor typed into the contact form.
type LeadForm struct {
	Name          string
	Email         string
	Phone         string
	ContactMethod string
	PreferredTime string
}

// Sink receives user-visible updates from the controller. Calls arrive
// from whichever goroutine is driving the controller; implementations
// bridge them onto their own event loop.
type Sink interface {
	TranscriptAppended(Entry)
	WorkingChanged(working bool, phrase string)
	LeadFormShown(prefill leadgate.Prefill)
	LeadFormHidden()
	SessionEnded()
	SessionReset(conversationID string)
}

// Backend is the slice of the API client the controller needs.
type Backend interface {
	Chat(ctx context.Context, req api.ChatRequest) (api.EventStream, error)
	SubmitLead(ctx context.Context, sub lead.Submission) error
}

// Controller drives one widget session.
type Controller struct {
	backend Backend
	sink    Sink
	logger  *logging.Logger
	phrases PhraseSource

	businessID string
	sheetID    string
	endDelay   time.Duration

	mu              sync.Mutex
	state           State
	conversationID  string
	transcript      []Entry
	leadFormVisible bool
	leadSubmitted   bool
	pendingLeadMeta *LeadMeta
	latestProfile   protocol.Profile
	rating          rating.Collector
	endTimer        *time.Timer
}

// Option configures a Controller.
type Option func(*Controller)

// WithBusinessID sets the tenant identifier forwarded to the backend.
func WithBusinessID(id string) Option {
	return func(c *Controller) { c.businessID = id }
}

// WithSheetID sets the data-source override forwarded to the backend.
func WithSheetID(id string) Option {
	return func(c *Controller) { c.sheetID = id }
}

// WithEndDelay sets how long a lead-captured reply stays on screen before
// the session ends.
func WithEndDelay(d time.Duration) Option {
	return func(c *Controller) { c.endDelay = d }
}

// WithPhraseSource replaces the randomized working-phrase source.
func WithPhraseSource(src PhraseSource) Option {
	return func(c *Controller) { c.phrases = src }
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// New creates a controller with a fresh conversation id.
func New(backend Backend, sink Sink, opts ...Option) *Controller {
	c := &Controller{
		backend:        backend,
		sink:           sink,
		logger:         logging.Default(),
		phrases:        NewRandomPhrases(),
		endDelay:       1200 * time.Millisecond,
		conversationID: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts one outgoing message and processes the reply stream to
// completion. Transport failures are recovered locally with an apology
// entry and a nil return; only precondition violations surface as errors.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	switch c.state {
	case StateEnded:
		c.mu.Unlock()
		return ErrSessionEnded
	case StateAwaitingReply:
		c.mu.Unlock()
		return ErrReplyPending
	}
	c.state = StateAwaitingReply
	entry := Entry{Role: RoleUser, Text: text, At: time.Now()}
	c.transcript = append(c.transcript, entry)
	convID := c.conversationID
	c.mu.Unlock()

	c.sink.TranscriptAppended(entry)
	c.sink.WorkingChanged(true, c.phrases.Phrase(Categorize(text)))

	stream, err := c.backend.Chat(ctx, api.ChatRequest{
		BusinessID:     c.businessID,
		ConversationID: convID,
		Message:        text,
		SheetID:        c.sheetID,
	})
	if err != nil {
		c.failTurn(err)
		return nil
	}
	defer stream.Close()

	var result *protocol.ChatResult
	for {
		ev, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.failTurn(err)
			return nil
		}

		switch ev.Type {
		case protocol.EventStatus:
			c.sink.WorkingChanged(true, ev.Message)
		case protocol.EventError:
			// Diagnostic only; status and result events keep flowing.
			c.logger.Warn("backend reported error event", "message", ev.Message)
		case protocol.EventResult:
			if ev.Data != nil {
				result = ev.Data
			}
		default:
			c.logger.Debug("ignoring unknown event type", "type", ev.Type)
		}
	}

	if result == nil {
		c.failTurn(errors.New("stream ended without a result"))
		return nil
	}

	c.applyResult(*result)
	return nil
}

// failTurn returns to Idle with an apology, leaving conversation id,
// profile, and lead state untouched.
func (c *Controller) failTurn(cause error) {
	c.logger.Error("chat turn failed", "error", cause)

	c.mu.Lock()
	c.state = StateIdle
	entry := Entry{Role: RoleAssistant, Text: apologyMessage, At: time.Now()}
	c.transcript = append(c.transcript, entry)
	c.mu.Unlock()

	c.sink.WorkingChanged(false, "")
	c.sink.TranscriptAppended(entry)
}

func (c *Controller) applyResult(result protocol.ChatResult) {
	msg := render.Parse(result.Reply)

	c.mu.Lock()
	if result.ConversationID != "" {
		c.conversationID = result.ConversationID
	}
	c.latestProfile = result.Profile
	entry := Entry{Role: RoleAssistant, Message: &msg, At: time.Now()}
	c.transcript = append(c.transcript, entry)

	decision := leadgate.Decide(leadgate.Inputs{
		Routing:       result.Routing,
		Profile:       result.Profile,
		FormVisible:   c.leadFormVisible,
		LeadSubmitted: c.leadSubmitted,
	})
	if decision.Show {
		c.leadFormVisible = true
		c.pendingLeadMeta = &LeadMeta{
			Intent:  firstNonEmpty(result.Routing.Intent, result.Profile.Intent, "other"),
			Urgency: firstNonEmpty(result.Routing.Urgency, result.Profile.Urgency, "unknown"),
			Summary: decision.Prefill.Summary,
		}
	}
	c.state = StateIdle
	c.mu.Unlock()

	c.sink.WorkingChanged(false, "")
	c.sink.TranscriptAppended(entry)
	if decision.Show {
		c.sink.LeadFormShown(decision.Prefill)
	}

	if result.LeadCaptured {
		// Give the reply a moment on screen before the input goes away.
		c.scheduleEnd()
	}
}

func (c *Controller) scheduleEnd() {
	c.mu.Lock()
	if c.endTimer != nil {
		c.endTimer.Stop()
	}
	c.endTimer = time.AfterFunc(c.endDelay, c.End)
	c.mu.Unlock()
}

// SubmitLead validates and posts the contact form. Validation failures
// and backend rejections leave the form visible; nothing is retried
// automatically.
func (c *Controller) SubmitLead(ctx context.Context, form LeadForm) error {
	c.mu.Lock()
	if c.leadSubmitted {
		c.mu.Unlock()
		return ErrLeadAlreadySubmitted
	}
	convID := c.conversationID
	meta := LeadMeta{Intent: "other", Urgency: "unknown"}
	if c.pendingLeadMeta != nil {
		meta = *c.pendingLeadMeta
	}
	c.mu.Unlock()

	method := form.ContactMethod
	if method == "" {
		method = leadgate.MethodEmail
		if form.Phone != "" {
			method = leadgate.MethodText
		}
	}

	sub := lead.Submission{
		BusinessID:     c.businessID,
		ConversationID: convID,
		Name:           strings.TrimSpace(form.Name),
		Email:          strings.TrimSpace(form.Email),
		Phone:          strings.TrimSpace(form.Phone),
		ContactMethod:  method,
		PreferredTime:  form.PreferredTime,
		Intent:         meta.Intent,
		Urgency:        meta.Urgency,
		Summary:        meta.Summary,
		SheetID:        c.sheetID,
	}

	// Precondition check happens before any network call.
	if err := sub.Validate(); err != nil {
		return err
	}

	if err := c.backend.SubmitLead(ctx, sub); err != nil {
		return fmt.Errorf("session: lead submission failed: %w", err)
	}

	contact := sub.Email
	if sub.ContactMethod == leadgate.MethodText && sub.Phone != "" {
		contact = sub.Phone
	}
	entry := Entry{
		Role: RoleSystem,
		Text: fmt.Sprintf(leadConfirmationFormat, sub.Name, contact),
		At:   time.Now(),
	}

	c.mu.Lock()
	c.leadSubmitted = true
	c.leadFormVisible = false
	c.pendingLeadMeta = nil
	c.transcript = append(c.transcript, entry)
	c.mu.Unlock()

	c.sink.LeadFormHidden()
	c.sink.TranscriptAppended(entry)
	return nil
}

// DismissLeadForm hides the form without submitting. The gate may surface
// it again on a later turn.
func (c *Controller) DismissLeadForm() {
	c.mu.Lock()
	visible := c.leadFormVisible
	c.leadFormVisible = false
	c.mu.Unlock()

	if visible {
		c.sink.LeadFormHidden()
	}
}

// End terminates the session: input is disabled and the rating affordance
// becomes available. Idempotent.
func (c *Controller) End() {
	c.mu.Lock()
	if c.state == StateEnded {
		c.mu.Unlock()
		return
	}
	c.state = StateEnded
	c.leadFormVisible = false
	c.mu.Unlock()

	c.sink.SessionEnded()
}

// Rate records the post-session satisfaction rating. One value per
// session, half-point steps from 0.5 to 5.
func (c *Controller) Rate(v float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rating.Record(v)
}

// Rating returns the recorded rating, if any.
func (c *Controller) Rating() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rating.Value()
}

// Reset reinitializes the session from any state: fresh conversation id,
// empty transcript, cleared flags, interactive again.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.endTimer != nil {
		c.endTimer.Stop()
		c.endTimer = nil
	}
	c.state = StateIdle
	c.conversationID = uuid.New().String()
	c.transcript = nil
	c.leadFormVisible = false
	c.leadSubmitted = false
	c.pendingLeadMeta = nil
	c.latestProfile = protocol.Profile{}
	c.rating.Reset()
	id := c.conversationID
	c.mu.Unlock()

	c.sink.SessionReset(id)
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ConversationID returns the active conversation id.
func (c *Controller) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

// Transcript returns a copy of the transcript so far.
func (c *Controller) Transcript() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// LeadFormVisible reports whether the contact form is showing.
func (c *Controller) LeadFormVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leadFormVisible
}

// LeadSubmitted reports whether a lead went out this session.
func (c *Controller) LeadSubmitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leadSubmitted
}

// Profile returns the latest backend-supplied profile snapshot.
func (c *Controller) Profile() protocol.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latestProfile
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
