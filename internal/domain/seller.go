package domain

import "context"

type Seller struct {
	ID          int64
	LoginID     string
	DisplayName *string
	IsAdmin     bool
}

// Session is the authenticated caller of one request.
type Session struct {
	SellerID int64
	LoginID  string
	IsAdmin  bool
}

// CanView reports whether the session may read data owned by sellerID.
func (s Session) CanView(sellerID int64) bool {
	return s.IsAdmin || s.SellerID == sellerID
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
