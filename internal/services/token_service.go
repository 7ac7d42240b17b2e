package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"postify/internal/utils"
)

const changePassPrefix = "change-password:"

// Reset tokens live in the server hot cache with a TTL, keyed by an opaque
// uuid. Tokens are single-use: ConsumeResetToken removes the entry.

// NewResetToken issues a change-password token for a user, valid for 24h.
func NewResetToken(userID uint) string {
	token := uuid.NewString()
	utils.GetCache().Set(changePassPrefix+token, userID, 24*time.Hour)
	return token
}

// LookupResetToken resolves a token to its user id without consuming it.
func LookupResetToken(token string) (uint, error) {
	v := utils.GetCache().Get(changePassPrefix + token)
	if v == nil {
		return 0, fmt.Errorf("token expired or unknown")
	}

	userID, ok := v.(uint)
	if !ok {
		return 0, fmt.Errorf("token expired or unknown")
	}
	return userID, nil
}

// ConsumeResetToken invalidates a token after a successful password change.
func ConsumeResetToken(token string) {
	utils.GetCache().Delete(changePassPrefix + token)
}
