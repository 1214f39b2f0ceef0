package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRole(t *testing.T) {
	tests := map[string]string{
		"Atleta":         RoleAthlete,
		" nutrizionista": RoleNutritionist,
		"MASSAGGIATORE":  RoleMassageTherapist,
		"PT":             RolePT,
		"":               "",
		"wizard":         "wizard",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeRole(in), in)
	}
}

func TestRoleGroups(t *testing.T) {
	assert.True(t, IsStaff(RoleAdmin))
	assert.True(t, IsStaff(RoleTrainer))
	assert.False(t, IsStaff(RoleAthlete))
	assert.False(t, IsStaff(RoleNutritionist))

	assert.True(t, IsValidRole(RoleMassageTherapist))
	assert.False(t, IsValidRole("atleta"))
}

func TestProfile_FullName(t *testing.T) {
	assert.Equal(t, "Mario Rossi", Profile{FirstName: "Mario", LastName: "Rossi"}.FullName())
	assert.Equal(t, "Rossi", Profile{LastName: "Rossi"}.FullName())
	assert.Equal(t, "Mario", Profile{FirstName: "Mario"}.FullName())
}

func TestNormalizeDifficulty(t *testing.T) {
	tests := map[string]string{
		"easy":         DifficultyEasy,
		"Bassa":        DifficultyEasy,
		"intermediate": DifficultyMedium,
		" media ":      DifficultyMedium,
		"ALTA":         DifficultyHard,
		"advanced":     DifficultyHard,
		"extreme":      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeDifficulty(in), in)
	}
}
