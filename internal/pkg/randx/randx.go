/*
Package randx provides generation of unique identifiers.

Server-issued rows get standard UUID ids; the chat flow marks its optimistic
placeholder rows with a prefixed temporary id so reconciliation can find
them and so a temporary id can never collide with a server-issued one.
*/
package randx

import (
	"strings"

	"github.com/google/uuid"
)

// TempIDPrefix marks client-generated placeholder ids.
const TempIDPrefix = "tmp_"

// MessageID generates a UUID v4 string to serve as a row identifier.
func MessageID() string {
	return uuid.New().String()
}

// TempMessageID generates a placeholder id for an optimistic chat message.
func TempMessageID() string {
	return TempIDPrefix + uuid.New().String()
}

// IsTempID reports whether the id belongs to a client-side placeholder.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}
