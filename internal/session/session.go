// Package session implements server-side sessions, flash messages, friendly
// forwarding and the remember-me cookie on top of echo.
//
// A Session lives for one request. The Manager middleware loads it from a
// Store, hangs it on the echo.Context, and writes it back just before the
// response is committed.
package session

import (
	"sort"

	"github.com/google/uuid"

	"sampleapp/internal/model"
)

// Flash kinds used by the views.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

// Flash is one message shown to the user.
type Flash struct {
	Kind    string
	Message string
}

// Session is the request-scoped view of one visitor's session.
type Session struct {
	id     string
	oldIDs []string
	data   Data
	// flashes loaded from the store; shown in this response only
	incoming map[string]string
	now      map[string]string

	dirty     bool
	destroyed bool
	committed bool

	user       *model.User
	userLoaded bool
}

func newSession(id string, data *Data) *Session {
	s := &Session{id: id}
	if data != nil {
		s.data = copyData(*data)
	}
	if len(s.data.Flash) > 0 {
		s.incoming = s.data.Flash
		s.data.Flash = nil
		s.dirty = true
	}
	return s
}

func newSessionID() string {
	return uuid.NewString()
}

// ID returns the current session id.
func (s *Session) ID() string { return s.id }

// UserID is the logged-in user's id, or 0.
func (s *Session) UserID() uint { return s.data.UserID }

func (s *Session) setUserID(id uint) {
	s.data.UserID = id
	s.dirty = true
}

// Regenerate moves the session to a fresh id. The old id is deleted from the
// store on commit.
func (s *Session) Regenerate() {
	if s.id != "" {
		s.oldIDs = append(s.oldIDs, s.id)
	}
	s.id = newSessionID()
	s.dirty = true
	s.destroyed = false
}

// Destroy clears every value and removes the session from the store. Flashes
// set afterwards survive into a fresh session.
func (s *Session) Destroy() {
	if s.id != "" {
		s.oldIDs = append(s.oldIDs, s.id)
	}
	s.id = ""
	s.data = Data{}
	s.user = nil
	s.userLoaded = true
	s.destroyed = true
	s.dirty = false
}

// SetFlash queues a message for the next request.
func (s *Session) SetFlash(kind, message string) {
	if s.data.Flash == nil {
		s.data.Flash = make(map[string]string)
	}
	s.data.Flash[kind] = message
	s.dirty = true
}

// FlashNow shows a message in the current response only.
func (s *Session) FlashNow(kind, message string) {
	if s.now == nil {
		s.now = make(map[string]string)
	}
	s.now[kind] = message
}

// Flashes returns the messages to render in this response, ordered by kind.
func (s *Session) Flashes() []Flash {
	merged := make(map[string]string, len(s.incoming)+len(s.now))
	for k, v := range s.incoming {
		merged[k] = v
	}
	for k, v := range s.now {
		merged[k] = v
	}
	kinds := make([]string, 0, len(merged))
	for k := range merged {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	out := make([]Flash, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Flash{Kind: k, Message: merged[k]})
	}
	return out
}

// ForwardingURL is the location stored by the last StoreLocation.
func (s *Session) ForwardingURL() string { return s.data.ForwardingURL }

func (s *Session) setForwardingURL(url string) {
	if s.data.ForwardingURL == url {
		return
	}
	s.data.ForwardingURL = url
	s.dirty = true
}

func (s *Session) empty() bool {
	return s.data.UserID == 0 && s.data.ForwardingURL == "" && len(s.data.Flash) == 0
}
