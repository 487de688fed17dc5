package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full", User{FirstName: "Anna", LastName: "Nowak", Username: "anowak"}, "Anna Nowak (@anowak)"},
		{"first name only", User{FirstName: "Anna"}, "Anna"},
		{"username only", User{Username: "anowak"}, "(@anowak)"},
		{"nothing", User{ChatID: 4242}, "4242"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.DisplayName())
		})
	}
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleClient}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
