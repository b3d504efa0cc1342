package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for uminion.
// It includes standard claims required by the JWT specification and the custom
// claims necessary for identifying users within the platform.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the identifier of the registered account the token was issued to.
	UserID string `json:"user_id"`

	// Username is the account's login name, embedded so chat connections can
	// attribute messages without a database round trip.
	Username string `json:"username"`
}
