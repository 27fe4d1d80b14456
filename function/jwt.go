// Copyright (c) 2019-present Mattermost, Inc. All Rights Reserved.
// See License for license information.

package function

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-faas-probes/utils"
)

// AuthHeader carries the bearer JWT for HTTP-deployed functions that require
// it (see HTTP.UseJWT).
const AuthHeader = "Probes-Authorization"

// EnvJWTSecret is the environment variable holding the shared secret.
const EnvJWTSecret = "PROBES_JWT_SECRET"

const jwtTTL = 15 * time.Minute

type JWTClaims struct {
	jwt.StandardClaims
	Caller string `json:"caller,omitempty"`
}

func NewJWT(caller, secret string) (string, error) {
	claims := JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(jwtTTL).Unix(),
		},
		Caller: caller,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// CheckAuthHeader validates the value of AuthHeader against secret. All
// failures have utils.ErrUnauthorized as the cause.
func CheckAuthHeader(header, secret string) (*JWTClaims, error) {
	if secret == "" {
		return nil, utils.NewUnauthorizedError("no JWT secret configured, set %s", EnvJWTSecret)
	}
	if header == "" {
		return nil, utils.NewUnauthorizedError("missing %s header", AuthHeader)
	}
	prefix := "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return nil, utils.NewUnauthorizedError("%s header must be a bearer token", AuthHeader)
	}
	claims := JWTClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, prefix), &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, utils.NewUnauthorizedError(err)
	}
	return &claims, nil
}
