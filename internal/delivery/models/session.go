package models

import (
	"time"

	id "solidario/pkg/domain"
)

// SessionState is the explicit resolution state of a registration session.
// Boolean flag combinations of the old form (confirmed, dialog open, record
// present) collapse into a single tagged value so that every transition can
// be validated.
type SessionState string

const (
	// StateIdle: no identifier resolved; downstream person state is empty.
	StateIdle SessionState = "idle"
	// StateSearching: a basic lookup is in flight for the current generation.
	StateSearching SessionState = "searching"
	// StateFound: the basic lookup answered; awaiting operator confirmation.
	StateFound SessionState = "found"
	// StateNotFound: valid identifier, but the registry has no record.
	// Confirming from here starts a manual registration.
	StateNotFound SessionState = "not_found"
	// StateConfirmedAPI: operator confirmed a registry-backed person; the
	// full record has been applied to the form fields.
	StateConfirmedAPI SessionState = "confirmed_api"
	// StateConfirmedManual: operator confirmed a manual registration; only
	// the identifier is known.
	StateConfirmedManual SessionState = "confirmed_manual"
	// StateEditing: the editable field set is open. Submission happens from
	// here and resets the session straight back to idle; the persisted
	// record is the success signal.
	StateEditing SessionState = "editing"
)

// Confirmed reports whether the session passed the confirmation step.
func (s SessionState) Confirmed() bool {
	switch s {
	case StateConfirmedAPI, StateConfirmedManual, StateEditing:
		return true
	}
	return false
}

// KnownFieldsMap records, per person field, whether the value came
// authoritatively from the registry. Known fields render read-only; unknown
// fields are open for manual entry.
type KnownFieldsMap map[string]bool

// NewKnownFieldsMap returns a map with every person field marked unknown.
func NewKnownFieldsMap() KnownFieldsMap {
	m := make(KnownFieldsMap, len(PersonFields))
	for _, f := range PersonFields {
		m[f] = false
	}
	return m
}

// LockState records, per delivery field, whether the operator pinned the
// value so it survives form resets. Independent of person-data provenance.
type LockState map[string]bool

// NewLockState returns a map with every delivery field unlocked.
func NewLockState() LockState {
	m := make(LockState, len(DeliveryFields))
	for _, f := range DeliveryFields {
		m[f] = false
	}
	return m
}

// Session is the authoritative server-side state of one delivery-registration
// form. All mutation happens through the service's named transitions.
type Session struct {
	ID         id.SessionID
	OperatorID id.UserID

	State SessionState

	// Identifier holds the sanitized digits typed so far, up to 13.
	Identifier string
	// Generation increments on every identifier edit. Lookup results are
	// applied only if the generation they started under still matches, so a
	// late answer from a superseded lookup never repopulates the form.
	Generation uint64

	// DisplayName and DisplaySex come from the basic lookup and drive the
	// confirmation step. Cleared on any identifier edit.
	DisplayName string
	DisplaySex  string

	// Message is the current inline message for the identifier field, in
	// Spanish. Empty when there is nothing to show.
	Message string

	Fields map[string]string
	Known  KnownFieldsMap
	Locks  LockState

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// NewSession creates an idle session for an operator.
func NewSession(operatorID id.UserID, now time.Time, ttl time.Duration) *Session {
	fields := make(map[string]string, len(PersonFields)+len(DeliveryFields))
	for _, f := range PersonFields {
		fields[f] = ""
	}
	for _, f := range DeliveryFields {
		fields[f] = ""
	}
	fields[FieldQuantity] = DefaultQuantity

	return &Session{
		ID:         id.NewSessionID(),
		OperatorID: operatorID,
		State:      StateIdle,
		Fields:     fields,
		Known:      NewKnownFieldsMap(),
		Locks:      NewLockState(),
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// Clone returns a deep copy so stores can hand out sessions without aliasing
// their internal state.
func (s *Session) Clone() *Session {
	out := *s
	out.Fields = make(map[string]string, len(s.Fields))
	for k, v := range s.Fields {
		out.Fields[k] = v
	}
	out.Known = make(KnownFieldsMap, len(s.Known))
	for k, v := range s.Known {
		out.Known[k] = v
	}
	out.Locks = make(LockState, len(s.Locks))
	for k, v := range s.Locks {
		out.Locks[k] = v
	}
	return &out
}
