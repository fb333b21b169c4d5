package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/twaaos/examscheduler/internal/app/models"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// MessageMaxLength bounds the CD message stored on a schedule
	MessageMaxLength = 200

	NameMaxLength = 100
)

// StudentDomain is the institutional domain of student-group accounts
const StudentDomain = "student.usv.ro"

// SpreadsheetExtensions are the accepted Excel template extensions
var SpreadsheetExtensions = []string{".xlsx", ".xls", ".xlsm"}

var compiledEmail = regexp.MustCompile(EmailPattern)

// IsEmail reports whether value looks like an email address
func IsEmail(value string) bool {
	return compiledEmail.MatchString(strings.ToLower(strings.TrimSpace(value)))
}

// EmailDomain returns the lower-cased domain part of email, or "" when there is none
func EmailDomain(email string) string {
	_, domain, ok := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	if !ok {
		return ""
	}
	return domain
}

// DomainAllowed reports whether the domain of email is one of allowed
func DomainAllowed(email string, allowed []string) bool {
	domain := EmailDomain(email)
	if domain == "" {
		return false
	}
	for _, d := range allowed {
		if domain == d {
			return true
		}
	}
	return false
}

// RoleForEmail maps an institutional address to its role. Student addresses are SG,
// every other allowed domain is CD. ok is false when the domain is not allowed.
func RoleForEmail(email string, allowed []string) (role models.Role, ok bool) {
	if !DomainAllowed(email, allowed) {
		return "", false
	}
	if EmailDomain(email) == StudentDomain {
		return models.RoleStudentGroup, true
	}
	return models.RoleTeacher, true
}

// IsSpreadsheetName reports whether filename has an accepted spreadsheet extension
func IsSpreadsheetName(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range SpreadsheetExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// StringValidation checks one string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a required string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation. Length is counted in runes.
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	n := len([]rune(v.Value))
	if v.MinLen > 0 && n < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && n > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// EmailValidation returns a validation of a required email address
func EmailValidation(value string) *StringValidation {
	return NewStringValidation(strings.ToLower(value)).WithPattern(compiledEmail)
}
