package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims issued by the Alive backend. It combines
// the standard claims required for validity checks with the identity
// attributes the application consumes (id and email).
type Payload struct {
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the identity's unique identifier (a UUID string).
	ID string `json:"id"`

	// Email is the address the identity was registered with. Pages derive
	// the sender display label from its local part.
	Email string `json:"email"`
}
