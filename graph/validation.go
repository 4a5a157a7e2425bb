package graph

import (
	"errors"
	"strings"

	"github.com/VitaminP8/postwall/graph/model"
	"github.com/VitaminP8/postwall/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// сообщения для клиента по паре "поле.правило"
var registerMessages = map[string]string{
	"Username.required":       "Username must not be empty",
	"Email.required":          "Email must not be empty",
	"Email.email":             "Email must be a valid email address",
	"Password.required":       "Password must not be empty",
	"ConfirmPassword.eqfield": "Passwords must match",
}

// validateRegisterInput возвращает InvalidInput с сообщением о первом нарушенном правиле.
func validateRegisterInput(in *model.RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg, ok := registerMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		return apperr.NewInvalidInput(msg, err)
	}
	return apperr.NewInvalidInput("Invalid input", err)
}
