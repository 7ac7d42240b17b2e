package handlers

import (
	"strings"

	"postify/internal/models"
)

const minPasswordLength = 8

// validateUser checks registration input. Returned field errors map directly
// onto the form fields the client renders them next to.
func validateUser(username, email, password string) []models.FieldError {
	var errs []models.FieldError

	if len(username) < 3 {
		errs = append(errs, models.FieldError{
			Field:   "username",
			Message: "The username needs at least 3 characters.",
		})
	}
	if strings.Contains(username, "@") {
		errs = append(errs, models.FieldError{
			Field:   "username",
			Message: "The username cannot contain an @ sign.",
		})
	}

	if !strings.Contains(email, "@") {
		errs = append(errs, models.FieldError{
			Field:   "email",
			Message: "This doesn't look like a valid email.",
		})
	}

	if err := validatePassword(password); err != nil {
		errs = append(errs, *err)
	}

	return errs
}

func validatePassword(password string) *models.FieldError {
	if len(password) < minPasswordLength {
		return &models.FieldError{
			Field:   "password",
			Message: "The password needs at least 8 characters.",
		}
	}
	return nil
}
