// Package validation performs synchronous, side-effect-free checks of user
// payloads. All violations are collected before reporting; callers decide
// whether a non-empty result aborts the operation.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"taskboard/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

const (
	nameMinLen = 2
	nameMaxLen = 50
	ageMax     = 120
)

// NewUser holds the fields of a create-user payload before defaults are
// applied. Optional attributes are pointers so absence can be told apart
// from the zero value.
type NewUser struct {
	Name   string
	Email  string
	Age    *int
	Role   *domain.Role
	Active *bool
}

// CheckNewUser validates a full create payload and returns the ordered list
// of violations, empty when the payload is acceptable.
func CheckNewUser(in NewUser) []string {
	var violations []string
	violations = append(violations, checkName(in.Name)...)
	violations = append(violations, checkEmail(in.Email)...)
	if in.Age != nil {
		violations = append(violations, checkAge(*in.Age)...)
	}
	if in.Role != nil {
		violations = append(violations, checkRole(*in.Role)...)
	}
	return violations
}

// CheckUserPatch validates only the fields present in a partial update.
// An empty patch yields no violations; the caller is expected to skip the
// store call entirely in that case.
func CheckUserPatch(p domain.UserPatch) []string {
	var violations []string
	if p.Name != nil {
		violations = append(violations, checkName(*p.Name)...)
	}
	if p.Email != nil {
		violations = append(violations, checkEmail(*p.Email)...)
	}
	if p.Age != nil {
		violations = append(violations, checkAge(*p.Age)...)
	}
	if p.Role != nil {
		violations = append(violations, checkRole(*p.Role)...)
	}
	return violations
}

// NormalizeEmail lowercases and trims an email address so uniqueness checks
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkName(name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return []string{"name is required"}
	}
	// length is measured in characters, not bytes
	if n := utf8.RuneCountInString(trimmed); n < nameMinLen || n > nameMaxLen {
		return []string{fmt.Sprintf("name must be between %d and %d characters", nameMinLen, nameMaxLen)}
	}
	return nil
}

func checkEmail(email string) []string {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return []string{"email is required"}
	}
	if !emailPattern.MatchString(trimmed) {
		return []string{"email must be a valid email address"}
	}
	return nil
}

func checkAge(age int) []string {
	if age < 0 || age > ageMax {
		return []string{fmt.Sprintf("age must be between 0 and %d", ageMax)}
	}
	return nil
}

func checkRole(role domain.Role) []string {
	if !domain.ValidRole(role) {
		return []string{fmt.Sprintf("role must be one of: %s, %s, %s", domain.RoleUser, domain.RoleAdmin, domain.RoleEditor)}
	}
	return nil
}
