package learning

import (
	"strings"

	"eptweb/internal/pkg/validate"
)

// SignUpForm is the raw sign-up input, including the password confirmation.
type SignUpForm struct {
	Name            string
	Username        string
	Email           string
	Document        string
	Password        string
	ConfirmPassword string
}

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

func (fe FieldErrors) add(field, msg string) {
	if msg != "" {
		fe[field] = msg
	}
}

// Validate runs the advisory checks for a student sign-up.
func (f SignUpForm) Validate() FieldErrors {
	fe := FieldErrors{}

	fe.add("name", validate.Name(f.Name))
	fe.add("username", validate.Login(f.Username))
	fe.add("email", validate.Email(strings.TrimSpace(f.Email)))
	fe.add("document", validate.DocumentIdentifier(f.Document, ProfileStudent.DocumentKind()))
	fe.add("password", validate.Password(f.Password))
	if f.Password != f.ConfirmPassword {
		fe.add("confirm_password", "Passwords do not match")
	}

	return fe
}

// Registration builds the backend payload. New accounts are students at the first level.
func (f SignUpForm) Registration() Registration {
	return Registration{
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Name:     strings.TrimSpace(f.Name),
		Document: f.Document,
		Level:    DefaultStudentLevel,
		Profile:  ProfileStudent,
	}
}
