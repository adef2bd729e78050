package common

const (
	// AccessTokenCookieName carries the signed session token.
	AccessTokenCookieName = "access_token"

	// SessionTokenCookieName carries the pending registration id between
	// register and verify. It is a raw lookup key, not a signed token.
	SessionTokenCookieName = "session_token"

	// TokenAudience is the audience claim every session token must carry.
	TokenAudience = "example.com"
)
