package model

// Principal is the authenticated identity attached to a request after the
// bearer credential has been verified.
type Principal struct {
	UserID         int64
	UserIdentifier string
}
