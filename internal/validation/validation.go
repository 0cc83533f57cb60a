// Package validation holds the field rules for the customer, supplier, branch
// and user forms.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	RoleAdministrator = "administrator"
	RoleEmployee      = "employee"
	RoleCashier       = "cashier"
)

var Roles = []string{RoleAdministrator, RoleEmployee, RoleCashier}

// Deliberately loose: something@something.tld with no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type CustomerForm struct {
	Name    string `json:"name" validate:"required,min=3"`
	Email   string `json:"email" validate:"omitempty,looseemail"`
	Phone   string `json:"phone" validate:"omitempty,min=8"`
	Address string `json:"address"`
	TaxID   string `json:"tax_id"`
}

type SupplierForm struct {
	Name        string `json:"name" validate:"required,min=3"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" validate:"omitempty,looseemail"`
	Phone       string `json:"phone" validate:"omitempty,min=8"`
	Address     string `json:"address"`
	TaxID       string `json:"tax_id"`
}

type BranchForm struct {
	Name    string `json:"name" validate:"required,min=3"`
	Address string `json:"address"`
}

type UserForm struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,looseemail"`
	Role     string `json:"role" validate:"required,role"`
}

type NewUserForm struct {
	UserForm
	Password string `json:"password" validate:"required,min=6"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return IsRole(fl.Field().String())
	})
	return v
}

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func IsRole(s string) bool {
	for _, r := range Roles {
		if s == r {
			return true
		}
	}
	return false
}

// Validate checks a form and returns *Error listing every failing field.
// Forms should be normalized first.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "looseemail":
		return "is not a valid email address"
	case "role":
		return "must be one of " + strings.Join(Roles, ", ")
	default:
		return "is invalid"
	}
}

func (f *CustomerForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.TaxID = strings.TrimSpace(f.TaxID)
}

func (f *SupplierForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.ContactName = strings.TrimSpace(f.ContactName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.TaxID = strings.TrimSpace(f.TaxID)
}

func (f *BranchForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Address = strings.TrimSpace(f.Address)
}

func (f *UserForm) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Role = strings.ToLower(strings.TrimSpace(f.Role))
}
