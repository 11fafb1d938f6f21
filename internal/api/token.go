package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry decodes the bearer token without verifying its signature and
// returns its expiry. ok is false when the token carries no exp claim. Some
// issuers nest the registered claims under a "MapClaims" object; that shape is
// accepted too.
func TokenExpiry(token string) (exp time.Time, ok bool, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, fmt.Errorf("parse token: %w", err)
	}

	if nested, isMap := claims["MapClaims"].(map[string]any); isMap {
		if _, hasExp := claims["exp"]; !hasExp {
			claims = jwt.MapClaims(nested)
		}
	}

	numeric, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read exp claim: %w", err)
	}
	if numeric == nil {
		return time.Time{}, false, nil
	}
	return numeric.Time, true, nil
}

// TokenExpired reports whether token carries an exp claim that is before now.
func TokenExpired(token string, now time.Time) bool {
	exp, ok, err := TokenExpiry(token)
	return err == nil && ok && exp.Before(now)
}
