// Package auth builds and verifies HMAC-signed access tokens. Access
// tokens are stateless: validity is determined entirely by signature and
// expiry at verification time, never by a server-side lookup.
package auth

import (
	"time"

	"github.com/dmitrijs2005/identitykeeper/internal/common"
	"github.com/dmitrijs2005/identitykeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered JWT claims plus the application claims
// describing the authenticated user.
type Claims struct {
	jwt.RegisteredClaims
	Name              string   `json:"name,omitempty"`
	Email             string   `json:"email,omitempty"`
	GivenName         string   `json:"given_name,omitempty"`
	FamilyName        string   `json:"family_name,omitempty"`
	IsInvited         bool     `json:"is_invited"`
	GrantedPermission string   `json:"granted_permission,omitempty"`
	TenantID          string   `json:"tenant_id,omitempty"`
	Roles             []string `json:"roles,omitempty"`
}

// UserID returns the subject claim parsed as a uuid.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// GenerateToken signs an access token for user with the given roles.
// Issuer and audience are embedded only when configured; expiresAt is
// decided by the caller so expiry policy stays in one place.
func GenerateToken(user *models.User, roles []string, secretKey []byte, issuer, audience string, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name:              user.UserName,
		Email:             user.Email,
		GivenName:         user.FirstName,
		FamilyName:        user.LastName,
		IsInvited:         user.IsInvited,
		GrantedPermission: user.GrantedPermission,
		Roles:             roles,
	}
	if issuer != "" {
		claims.Issuer = issuer
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	if user.TenantID != nil {
		claims.TenantID = user.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken verifies signature and expiry and returns the claims.
// Issuer and audience are validated only when configured; an unset value
// deliberately skips that check.
func ParseToken(tokenString string, secretKey []byte, issuer, audience string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
