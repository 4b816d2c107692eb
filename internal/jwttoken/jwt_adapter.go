package jwttoken

import (
	"rehome/internal/platform/middleware"
	"rehome/pkg/domain"
)

// JWTServiceAdapter bridges token claims into the typed caller identity the
// auth middleware expects. Parsing happens here so handlers never see raw
// claim strings.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	personID, err := domain.ParsePersonID(claims.PersonID)
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{PersonID: personID, Role: role}, nil
}
