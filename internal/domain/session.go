package domain

// Session identifies the authenticated shopper for the duration of one
// request. It is passed explicitly to whatever needs it; there is no
// ambient current-user singleton. IsAdmin is derived from the configured
// allow-list when the session is resolved.
type Session struct {
	UserID  string
	Email   string
	IsAdmin bool
}
