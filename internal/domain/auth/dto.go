package auth

import "github.com/cmlabs-hris/timesheet-go/internal/pkg/validator"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	// Username
	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	} else if !validator.IsValidUsername(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username may only contain letters, numbers, dots, underscores, hyphens and @",
		})
	}

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LogoutRequest identifies the access token being given up.
type LogoutRequest struct {
	TokenID   string
	ExpiresAt int64
}

type TokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
	Username             string `json:"username"`
	IsAdmin              bool   `json:"is_admin"`
}
