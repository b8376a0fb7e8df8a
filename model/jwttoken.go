package model

import "github.com/golang-jwt/jwt/v5"

// RefreshRecord is stored per user in the refreshTokens collection. Only a
// hash of the issued refresh token is kept.
type RefreshRecord struct {
	UserID       string `firestore:"userid"`
	RefreshToken string `firestore:"refreshtoken"`
	CreatedAt    int64  `firestore:"createdat"`
	Revoked      bool   `firestore:"revoked"`
	ExpiresIn    int64  `firestore:"expiresin"`
}

type AccessClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
