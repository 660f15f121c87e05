package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultAccessMinutes = 15

// Issuer mints and validates HS256 access tokens. The signing key is
// symmetric, so anything that can verify can also sign; it never leaves
// the process.
type Issuer struct {
	Secret        []byte
	Issuer        string
	Audience      string
	AccessMinutes int
}

func (i *Issuer) accessTTL() time.Duration {
	minutes := i.AccessMinutes
	if minutes <= 0 {
		minutes = DefaultAccessMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (i *Issuer) SignAccessToken(userID uint, username, email string, roles []string) (string, time.Time, error) {
	exp := time.Now().Add(i.accessTTL())
	claims := AccessClaims{
		Username: username,
		Email:    email,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    i.Issuer,
			Audience:  jwt.ClaimStrings{i.Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (i *Issuer) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.Secret, nil
	}, jwt.WithIssuer(i.Issuer), jwt.WithAudience(i.Audience))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

// UserID parses the numeric subject back out of validated claims.
func (c *AccessClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
