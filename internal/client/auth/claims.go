package auth

import (
	"fmt"

	"github.com/dmitrijs2005/fashionfinder/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the parts of an access token the client cares about. The user
// id travels in the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (c *Claims) UserID() string { return c.Subject }

// ParseClaims reads the claims of an access token. With a configured secret
// the HS256 signature and expiry are verified; without one the token is only
// decoded.
func (c *Client) ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}

	if c.secret == nil {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
		}
		if claims.Subject == "" {
			return nil, fmt.Errorf("%w: missing sub", common.ErrInvalidToken)
		}
		return claims, nil
	}

	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !t.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
