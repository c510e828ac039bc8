package sfmcdomain

import "time"

// IssuedToken is an access token handed out by the auth endpoint.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	Scope       string
}

// AccessToken is the cached bearer credential.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
	Manual    bool
}
