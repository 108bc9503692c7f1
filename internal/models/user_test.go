package models

import "testing"

// TestUserIsPlatformAdmin verifies that only the platform_admin role counts.
func TestUserIsPlatformAdmin(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "platform admin", role: RolePlatformAdmin, want: true},
		{name: "user", role: RoleUser, want: false},
		{name: "empty role", role: Role(""), want: false},
		{name: "uppercase", role: Role("PLATFORM_ADMIN"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsPlatformAdmin(); got != tt.want {
				t.Errorf("User{Role: %q}.IsPlatformAdmin() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
