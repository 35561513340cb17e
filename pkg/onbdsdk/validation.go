package onbdsdk

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	requiredReason = "required"

	minNameLength     = 3
	maxNameLength     = 100
	minPasswordLength = 6
	maxPasswordBytes  = 72 // bcrypt input limit
	maxEmailLength    = 254
	maxDepartment     = 100
)

// ValidEmail reports whether s is a bare address such as "a@example.com".
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndexByte(s, '@'):], ".")
}

func invitableRole(role string) bool {
	return role == RolePGC || role == RoleNPGC
}

func validateEmail(errs map[string]string, field, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		errs[field] = requiredReason
	case !ValidEmail(email):
		errs[field] = "must be a valid email address"
	}
}

func validateName(errs map[string]string, field, name string) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		errs[field] = requiredReason
	case utf8.RuneCountInString(name) < minNameLength:
		errs[field] = "too short (min 3)"
	case utf8.RuneCountInString(name) > maxNameLength:
		errs[field] = "too long (max 100)"
	}
}

func validatePassword(errs map[string]string, field, pw string, minLen int) {
	switch {
	case pw == "":
		errs[field] = requiredReason
	case utf8.RuneCountInString(pw) < minLen:
		errs[field] = fmt.Sprintf("too short (min %d)", minLen)
	case len(pw) > maxPasswordBytes:
		errs[field] = "too long (max 72 bytes)"
	}
}

func result(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate returns field errors, or nil if the request is well formed.
func (r LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = requiredReason
	}
	if r.Password == "" {
		errs["password"] = requiredReason
	}
	return result(errs)
}

// Validate returns field errors, or nil if the request is well formed.
func (r InviteRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	switch {
	case r.Role == "":
		errs["role"] = requiredReason
	case !invitableRole(r.Role):
		errs["role"] = "must be one of: pgc, npgc"
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Department)) > maxDepartment {
		errs["department"] = "too long (max 100)"
	}
	return result(errs)
}

// Validate returns field errors, or nil if the request is well formed.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Token) == "" {
		errs["token"] = requiredReason
	}
	validateName(errs, "name", r.Name)
	validatePassword(errs, "password", r.Password, minPasswordLength)
	if r.Role != "" && !invitableRole(r.Role) {
		errs["role"] = "must be one of: pgc, npgc"
	}
	return result(errs)
}

// Validate returns field errors, or nil if the request is well formed.
func (b BootstrapRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "admin_email", b.AdminEmail)
	validateName(errs, "admin_name", b.AdminName)
	validatePassword(errs, "admin_password", b.AdminPassword, 8)
	return result(errs)
}
