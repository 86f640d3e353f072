// Package domain defines strongly typed identifiers shared across modules.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "intake/pkg/domain-errors"
)

// ClientID is the opaque identity of a client intake record. Assigned at
// creation, immutable thereafter.
type ClientID uuid.UUID

// NewClientID generates a fresh random client ID.
func NewClientID() ClientID {
	return ClientID(uuid.New())
}

// ParseClientID parses the string form of a client ID.
func ParseClientID(s string) (ClientID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ClientID{}, dErrors.New(dErrors.CodeBadRequest, "invalid client id")
	}
	return ClientID(u), nil
}

func (i ClientID) String() string {
	return uuid.UUID(i).String()
}

// IsZero reports whether the ID is the zero UUID.
func (i ClientID) IsZero() bool {
	return uuid.UUID(i) == uuid.Nil
}

func (i ClientID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *ClientID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*i = ClientID(u)
	return nil
}

// FormatClientNumber renders the human-facing business key for a store-issued
// sequence value, e.g. 1 -> "CLI000001".
func FormatClientNumber(seq int64) string {
	return fmt.Sprintf("CLI%06d", seq)
}
