package model

import "testing"

func TestUser_IsAdmin(t *testing.T) {
	admin := &User{ID: "u1", Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Error("RoleAdminのユーザーはIsAdmin() = trueであるべき")
	}

	member := &User{ID: "u2", Role: RoleMember}
	if member.IsAdmin() {
		t.Error("RoleMemberのユーザーはIsAdmin() = falseであるべき")
	}
}

func TestPrincipal_CanSubmitFor(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		target    string
		want      bool
	}{
		{
			name:      "本人の提出は許可",
			principal: Principal{UserID: "u1", Role: RoleMember},
			target:    "u1",
			want:      true,
		},
		{
			name:      "他人への提出は拒否",
			principal: Principal{UserID: "u1", Role: RoleMember},
			target:    "u2",
			want:      false,
		},
		{
			name:      "管理者は代理提出を許可",
			principal: Principal{UserID: "admin-1", Role: RoleAdmin},
			target:    "u2",
			want:      true,
		},
		{
			name:      "管理者本人の提出も許可",
			principal: Principal{UserID: "admin-1", Role: RoleAdmin},
			target:    "admin-1",
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.CanSubmitFor(tt.target); got != tt.want {
				t.Errorf("CanSubmitFor(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}
