// Package domain provides type-safe identifiers and identity primitives so
// that IDs from different aggregates cannot be mixed up at compile time.
package domain

import (
	"strconv"

	"github.com/google/uuid"

	dErrors "solidario/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a UserID where a SessionID
// is expected.
type (
	UserID        uuid.UUID
	SessionID     uuid.UUID
	DeliveryID    uuid.UUID
	PublicationID uuid.UUID
)

// Catalog identifiers are small integers managed by the programs/benefits
// catalog, not UUIDs.
type (
	ProgramID int64
	BenefitID int64
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseSessionID(s string) (SessionID, error) {
	id, err := parseUUID(s, "session ID")
	return SessionID(id), err
}

func ParseDeliveryID(s string) (DeliveryID, error) {
	id, err := parseUUID(s, "delivery ID")
	return DeliveryID(id), err
}

func ParsePublicationID(s string) (PublicationID, error) {
	id, err := parseUUID(s, "publication ID")
	return PublicationID(id), err
}

func ParseProgramID(s string) (ProgramID, error) {
	n, err := parsePositiveInt(s, "program ID")
	return ProgramID(n), err
}

func ParseBenefitID(s string) (BenefitID, error) {
	n, err := parsePositiveInt(s, "benefit ID")
	return BenefitID(n), err
}

// New functions - for generating fresh identifiers.

func NewUserID() UserID               { return UserID(uuid.New()) }
func NewSessionID() SessionID         { return SessionID(uuid.New()) }
func NewDeliveryID() DeliveryID       { return DeliveryID(uuid.New()) }
func NewPublicationID() PublicationID { return PublicationID(uuid.New()) }

// String methods - for logging and debugging.

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id SessionID) String() string     { return uuid.UUID(id).String() }
func (id DeliveryID) String() string    { return uuid.UUID(id).String() }
func (id PublicationID) String() string { return uuid.UUID(id).String() }

func (id ProgramID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id BenefitID) String() string { return strconv.FormatInt(int64(id), 10) }

// Text marshaling - UUID-backed IDs travel as canonical UUID strings in JSON.
// Defined types do not inherit uuid.UUID's methods, so these are explicit.

func (id UserID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id SessionID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id DeliveryID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id PublicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SessionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSessionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DeliveryID) UnmarshalText(b []byte) error {
	parsed, err := ParseDeliveryID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PublicationID) UnmarshalText(b []byte) error {
	parsed, err := ParsePublicationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IsZero reports whether the identifier is the zero value.

func (id UserID) IsZero() bool        { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DeliveryID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PublicationID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

func (id ProgramID) IsZero() bool { return id == 0 }
func (id BenefitID) IsZero() bool { return id == 0 }

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return id, nil
}

func parsePositiveInt(s, label string) (int64, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	return n, nil
}
