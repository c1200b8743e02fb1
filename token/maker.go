package token

import "time"

// Maker creates and verifies access tokens for the search API
type Maker interface {
	CreateToken(subject string, duration time.Duration) (string, *Payload, error)

	VerifyToken(token string) (*Payload, error)
}
