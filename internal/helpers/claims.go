package helpers

import (
	"fmt"
	"strconv"
)

// EnhancedClaims is what AuthMiddleware stores under the "user" context key.
type EnhancedClaims struct {
	*CustomClaims
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
}

func NewEnhancedClaims(claims *CustomClaims) (*EnhancedClaims, error) {
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("token subject %q is not a valid user id", claims.Subject)
	}
	return &EnhancedClaims{
		CustomClaims: claims,
		UserID:       userID,
		Role:         claims.Role,
		Email:        claims.Email,
	}, nil
}

// Helper methods for role checking
func (ec *EnhancedClaims) IsAdmin() bool {
	return ec.Role == "admin"
}

func (ec *EnhancedClaims) IsOwner(userID int64) bool {
	return ec.UserID == userID
}

func (ec *EnhancedClaims) GetSafeRole() string {
	if ec.Role == "" {
		return "guest"
	}
	return ec.Role
}
