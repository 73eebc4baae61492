/*
Package chatflow implements the community chat screen state.

Sending is optimistic: the message appears immediately with a temporary id
and a pending flag, the input clears, and the server's row later replaces
the placeholder in place. The realtime push and the direct response race
freely; reconciliation tolerates the push arriving before, after, or never.
*/
package chatflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/aizatop/alive/internal/client"
	"github.com/aizatop/alive/internal/pkg/errs"
	"github.com/aizatop/alive/internal/pkg/logx"
	"github.com/aizatop/alive/internal/pkg/randx"
)

// ErrUnauthenticated reports that the chat screen was opened without a
// session. The shell redirects to the auth screen on it.
var ErrUnauthenticated = errors.New("chat requires an authenticated session")

const (
	msgLoadFailed = "❌ Не удалось загрузить сообщения"
	msgSendFailed = "❌ Не удалось отправить сообщение. Попробуйте снова."
)

// Backend is the slice of the backend facade the flow needs.
type Backend interface {
	CurrentUser(ctx context.Context) *client.User
	RoomMessages(ctx context.Context) ([]client.RoomMessage, *errs.CustomError)
	SendRoomMessage(ctx context.Context, content string) (*client.RoomMessage, *errs.CustomError)
	SubscribeToRoomMessages(handler func(client.RoomMessage)) (*client.Subscription, *errs.CustomError)
}

// ChatMessage is one rendered chat entry. Pending marks an optimistic
// message the server has not confirmed yet.
type ChatMessage struct {
	ID          string
	SenderID    string
	SenderLabel string
	Content     string
	CreatedAt   time.Time
	Pending     bool
}

// State is a render-ready snapshot of the chat screen.
type State struct {
	Messages  []ChatMessage
	Input     string
	ErrorText string
}

// Flow drives the chat screen. Safe for concurrent use; push deliveries
// arrive on the subscription's goroutine.
type Flow struct {
	mu      sync.Mutex
	backend Backend

	user     *client.User
	messages []ChatMessage
	input    string

	errorText string
	closed    bool
	sub       *client.Subscription

	// onChange fires when the message list length changes, so the UI can
	// scroll to the bottom.
	onChange func(messageCount int)
}

// NewFlow builds an unloaded chat flow. onChange may be nil.
func NewFlow(backend Backend, onChange func(messageCount int)) *Flow {
	return &Flow{backend: backend, onChange: onChange}
}

// Load resolves the session, fetches the room history, and attaches the
// realtime subscription. A missing session returns ErrUnauthenticated.
func (f *Flow) Load(ctx context.Context) error {
	user := f.backend.CurrentUser(ctx)
	if user == nil {
		return ErrUnauthenticated
	}

	history, customErr := f.backend.RoomMessages(ctx)
	if customErr != nil {
		f.mu.Lock()
		f.errorText = msgLoadFailed
		f.mu.Unlock()
		return customErr
	}

	messages := make([]ChatMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, fromRoomMessage(m))
	}

	f.mu.Lock()
	f.user = user
	f.messages = messages
	f.mu.Unlock()
	f.notify()

	sub, customErr := f.backend.SubscribeToRoomMessages(f.receivePush)
	if customErr != nil {
		// history still renders; new messages just will not stream in
		logx.Warn("Chat subscription failed; continuing without live updates", "code", customErr.Code)
		return nil
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		sub.Unsubscribe()
		return nil
	}
	f.sub = sub
	f.mu.Unlock()

	return nil
}

// State returns a snapshot of the current screen state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Messages:  append([]ChatMessage(nil), f.messages...),
		Input:     f.input,
		ErrorText: f.errorText,
	}
}

// SetInput replaces the compose box content.
func (f *Flow) SetInput(v string) {
	f.mu.Lock()
	f.input = v
	f.mu.Unlock()
}

// Send posts the compose box content. The message is appended immediately
// as a pending placeholder and the input clears before the network call;
// the server row later replaces the placeholder. An empty input is a no-op.
//
// Send does not guard against being called twice for the same input: two
// overlapping calls produce two placeholders and two server rows.
func (f *Flow) Send(ctx context.Context) {
	f.mu.Lock()
	if f.closed || f.user == nil {
		f.mu.Unlock()
		return
	}

	content := strings.TrimSpace(f.input)
	if content == "" {
		f.mu.Unlock()
		return
	}

	placeholder := ChatMessage{
		ID:          randx.TempMessageID(),
		SenderID:    f.user.ID,
		SenderLabel: senderLabel(f.user.Email),
		Content:     content,
		CreatedAt:   time.Now(),
		Pending:     true,
	}
	f.messages = append(f.messages, placeholder)
	f.input = ""
	f.errorText = ""
	f.mu.Unlock()
	f.notify()

	sent, customErr := f.backend.SendRoomMessage(ctx, content)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}

	if customErr != nil {
		f.removeLocked(placeholder.ID)
		f.errorText = msgSendFailed
		f.mu.Unlock()
		f.notify()
		return
	}

	if f.hasIDLocked(sent.ID) {
		// the push beat the response and already reconciled the
		// placeholder; drop the duplicate placeholder if it is still there
		changed := f.removeLocked(placeholder.ID)
		f.mu.Unlock()
		if changed {
			f.notify()
		}
		return
	}

	f.replaceLocked(placeholder.ID, fromRoomMessage(*sent))
	f.mu.Unlock()
}

// receivePush folds one pushed row into the list. The flow's own pending
// placeholder, when one matches by sender and content, is replaced in
// place so the message keeps its position.
func (f *Flow) receivePush(m client.RoomMessage) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}

	if f.hasIDLocked(m.ID) {
		f.mu.Unlock()
		return
	}

	if f.user != nil && m.SenderID == f.user.ID {
		for i := range f.messages {
			if f.messages[i].Pending && f.messages[i].Content == m.Content {
				f.messages[i] = fromRoomMessage(m)
				f.mu.Unlock()
				return
			}
		}
	}

	f.messages = append(f.messages, fromRoomMessage(m))
	f.mu.Unlock()
	f.notify()
}

// Close detaches the subscription and freezes the flow. Idempotent; any
// in-flight send or push after Close is ignored.
func (f *Flow) Close() {
	f.mu.Lock()
	f.closed = true
	sub := f.sub
	f.sub = nil
	f.mu.Unlock()

	sub.Unsubscribe()
}

func (f *Flow) hasIDLocked(id string) bool {
	for i := range f.messages {
		if f.messages[i].ID == id {
			return true
		}
	}
	return false
}

func (f *Flow) removeLocked(id string) bool {
	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Flow) replaceLocked(id string, m ChatMessage) {
	for i := range f.messages {
		if f.messages[i].ID == id {
			f.messages[i] = m
			return
		}
	}
	// the placeholder is gone; keep the confirmed row anyway
	f.messages = append(f.messages, m)
}

func (f *Flow) notify() {
	f.mu.Lock()
	onChange := f.onChange
	count := len(f.messages)
	f.mu.Unlock()

	if onChange != nil {
		onChange(count)
	}
}

func fromRoomMessage(m client.RoomMessage) ChatMessage {
	return ChatMessage{
		ID:          m.ID,
		SenderID:    m.SenderID,
		SenderLabel: senderLabel(m.SenderEmail),
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
}

// senderLabel shortens an email to its local part for display.
func senderLabel(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
