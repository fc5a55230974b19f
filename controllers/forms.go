package controllers

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterForm is the sign-up form
type RegisterForm struct {
	Name      string `form:"name" binding:"max=200"`
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"required,max=254,email"`
	Password1 string `form:"password1" binding:"required,min=8,notnumeric"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

// UserForm edits the requester's profile. The avatar arrives as a separate file part.
type UserForm struct {
	Name     string `form:"name" binding:"max=200"`
	Username string `form:"username" binding:"required,max=150,username"`
	Email    string `form:"email" binding:"required,max=254,email"`
	Bio      string `form:"bio"`
}

// RoomForm creates or edits a room
type RoomForm struct {
	Topic       string `form:"topic" binding:"max=200"`
	Name        string `form:"name" binding:"required,max=200"`
	Description string `form:"description"`
}

// MessageForm posts a message to a room
type MessageForm struct {
	Body string `form:"body" json:"body" binding:"required"`
}

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	numericPattern  = regexp.MustCompile(`^[0-9]+$`)

	validatorsOnce sync.Once
	validatorsErr  error

	errBlankMessage = errors.New("message body is blank")
)

// bindMessage reads a message form and returns its body without surrounding whitespace
func bindMessage(c *gin.Context, b binding.Binding) (string, error) {
	var form MessageForm
	if err := c.ShouldBindWith(&form, b); err != nil {
		return "", err
	}
	body := strings.TrimSpace(form.Body)
	if body == "" {
		return "", errBlankMessage
	}
	return body, nil
}

func registerValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = errors.New("unexpected validator engine")
			return
		}
		if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		}); err != nil {
			validatorsErr = err
			return
		}
		validatorsErr = v.RegisterValidation("notnumeric", func(fl validator.FieldLevel) bool {
			return !numericPattern.MatchString(fl.Field().String())
		})
	})
	return validatorsErr
}

// fieldErrors turns a binding error into one message per form field
func fieldErrors(err error) map[string]string {
	errs := map[string]string{}
	if err == nil {
		return errs
	}

	if errors.Is(err, errBlankMessage) {
		errs["body"] = "This field is required."
		return errs
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		errs["form"] = err.Error()
		return errs
	}

	for _, fe := range validationErrs {
		field := strings.ToLower(fe.Field())
		if _, seen := errs[field]; !seen {
			errs[field] = fieldMessage(fe)
		}
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "notnumeric":
		return "This password is entirely numeric."
	default:
		return "Enter a valid value."
	}
}
