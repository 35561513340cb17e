package onbdsdk_test

import (
	"strings"
	"testing"

	"github.com/aussiebroadwan/onbd/pkg/onbdsdk"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"a@example.com", "First.Last+tag@sub.example.org", " padded@example.com "} {
		require.True(t, onbdsdk.ValidEmail(ok), ok)
	}
	for _, bad := range []string{"", "plain", "a@", "@example.com", "Name <a@example.com>", "a@localhost", strings.Repeat("a", 250) + "@x.io"} {
		require.False(t, onbdsdk.ValidEmail(bad), bad)
	}
}

func TestInviteRequest_Validate(t *testing.T) {
	t.Parallel()

	require.Nil(t, onbdsdk.InviteRequest{Email: "a@example.com", Role: onbdsdk.RolePGC}.Validate())
	require.Nil(t, onbdsdk.InviteRequest{Email: "a@example.com", Role: onbdsdk.RoleNPGC, Department: "ops"}.Validate())

	errs := onbdsdk.InviteRequest{Email: "nope", Role: onbdsdk.RoleAdmin, Department: strings.Repeat("d", 101)}.Validate()
	require.Contains(t, errs, "email")
	require.Contains(t, errs, "role")
	require.Contains(t, errs, "department")

	errs = onbdsdk.InviteRequest{}.Validate()
	require.Equal(t, "required", errs["email"])
	require.Equal(t, "required", errs["role"])
}

func TestRegisterRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := onbdsdk.RegisterRequest{Token: "abc", Name: "Bob", Password: "123456"}
	require.Nil(t, valid.Validate())
	require.Nil(t, onbdsdk.RegisterRequest{Token: "abc", Name: "李明华", Password: "éééééé"}.Validate())

	tests := []struct {
		name  string
		mut   func(*onbdsdk.RegisterRequest)
		field string
	}{
		{"missing token", func(r *onbdsdk.RegisterRequest) { r.Token = " " }, "token"},
		{"short name", func(r *onbdsdk.RegisterRequest) { r.Name = "Bo" }, "name"},
		{"padded short name", func(r *onbdsdk.RegisterRequest) { r.Name = "  Bo  " }, "name"},
		{"short password", func(r *onbdsdk.RegisterRequest) { r.Password = "12345" }, "password"},
		{"short multibyte name", func(r *onbdsdk.RegisterRequest) { r.Name = "李明" }, "name"},
		{"short multibyte password", func(r *onbdsdk.RegisterRequest) { r.Password = "ééé" }, "password"},
		{"long password", func(r *onbdsdk.RegisterRequest) { r.Password = strings.Repeat("p", 73) }, "password"},
		{"admin role", func(r *onbdsdk.RegisterRequest) { r.Role = onbdsdk.RoleAdmin }, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mut(&req)
			errs := req.Validate()
			require.Len(t, errs, 1)
			require.Contains(t, errs, tt.field)
		})
	}
}

func TestLoginAndBootstrap_Validate(t *testing.T) {
	t.Parallel()

	require.Nil(t, onbdsdk.LoginRequest{Email: "x", Password: "y"}.Validate())
	require.Len(t, onbdsdk.LoginRequest{}.Validate(), 2)

	require.Nil(t, onbdsdk.BootstrapRequest{
		AdminEmail: "admin@pss.com", AdminName: "Platform Admin", AdminPassword: "long-enough",
	}.Validate())

	errs := onbdsdk.BootstrapRequest{AdminEmail: "admin", AdminName: "A", AdminPassword: "short"}.Validate()
	require.Len(t, errs, 3)
	require.Equal(t, "too short (min 8)", errs["admin_password"])
}
