package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brokerlane/brokerlane-backend/pkg/enums"
)

// AccessTokenClaims is the typed JWT issued by the external identity service.
// The engine only consumes it; it never mints tokens.
type AccessTokenClaims struct {
	UserID           uuid.UUID       `json:"user_id"`
	Role             enums.ActorRole `json:"role"`
	PartnerCompanyID *uuid.UUID      `json:"partner_company_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor is the explicit authorization context threaded into every lifecycle
// operation. Services never read ambient session state.
type Actor struct {
	UserID           uuid.UUID
	Role             enums.ActorRole
	PartnerCompanyID *uuid.UUID
}

// IsAdmin reports whether the actor holds the internal admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.ActorRoleAdmin
}

// IsPartner reports whether the actor is a referral partner.
func (a Actor) IsPartner() bool {
	return a.Role == enums.ActorRolePartner
}

// ActorFromClaims maps verified claims into an Actor.
func ActorFromClaims(claims *AccessTokenClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{
		UserID:           claims.UserID,
		Role:             claims.Role,
		PartnerCompanyID: claims.PartnerCompanyID,
	}
}
