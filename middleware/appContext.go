package middleware

import (
	"context"

	"catalog-search-backend/token"
)

// AppContext bundles all dependencies
type AppContext struct {
	PasetoMaker token.Maker
	Ctx         context.Context
	Sessions    SessionStore
}
