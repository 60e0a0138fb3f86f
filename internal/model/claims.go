package model

// AuthClaims is the verified content of a development backend token.
type AuthClaims struct {
	UserID  int64
	Email   string
	Type    string
	TokenID string
}
