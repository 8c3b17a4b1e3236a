package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	doctor := &User{ID: "u-1", Name: "Dr. Grey", Role: "doctor"}

	assert.True(t, HasRole(doctor), "no requirement admits any user")
	assert.True(t, HasRole(doctor, RoleDoctor), "comparison ignores case")
	assert.True(t, HasRole(doctor, "DOCTOR "), "comparison ignores padding")
	assert.True(t, HasRole(doctor, RoleAdmin, RoleDoctor), "any listed role matches")
	assert.False(t, HasRole(doctor, RoleNurse))
	assert.True(t, HasRole(doctor, ""), "blank requirement admits any user")
	assert.False(t, HasRole(nil, RoleDoctor))
	assert.False(t, HasRole(nil))
}

func TestUserClone(t *testing.T) {
	original := &User{ID: "u-1", Role: RoleAdmin, Extra: map[string]any{"department": "ICU"}}
	clone := original.Clone()

	clone.Extra["department"] = "ER"
	clone.Role = RoleNurse

	assert.Equal(t, "ICU", original.Extra["department"])
	assert.Equal(t, RoleAdmin, original.Role)
	assert.Nil(t, (*User)(nil).Clone())
}

func TestTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ParseTheme("dark", ThemeLight))
	assert.Equal(t, ThemeLight, ParseTheme("purple", ThemeLight))
}
