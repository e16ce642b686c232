package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signup struct {
	Username string `validate:"required,min=3"`
	Mobile   string `validate:"required,valid_mobile"`
}

type skill struct {
	SkillName        string `validate:"not_blank"`
	ProficiencyLevel int    `validate:"proficiency"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	t.Run("Should accept ten digit mobiles only", func(t *testing.T) {
		assert.NoError(t, v.Struct(signup{Username: "bob", Mobile: "9876543210"}))

		err := v.Struct(signup{Username: "bob", Mobile: "+98765"})
		assert.Error(t, err)
		assert.Equal(t, []string{"Mobile number must be exactly 10 digits"}, FormatValidationErrors(err))
	})

	t.Run("Should bound proficiency", func(t *testing.T) {
		assert.NoError(t, v.Struct(skill{SkillName: "Go", ProficiencyLevel: 10}))
		assert.Error(t, v.Struct(skill{SkillName: "Go", ProficiencyLevel: 0}))
		assert.Error(t, v.Struct(skill{SkillName: "Go", ProficiencyLevel: 11}))
		assert.Error(t, v.Struct(skill{SkillName: "  ", ProficiencyLevel: 5}))
	})

	t.Run("Should describe malformed ids", func(t *testing.T) {
		type change struct {
			ApplicationID string `validate:"required,uuid"`
		}
		err := v.Struct(change{ApplicationID: "abc"})
		assert.Equal(t, "Application id must be a valid id", Message(err))
	})

	t.Run("Should report min length", func(t *testing.T) {
		err := v.Struct(signup{Username: "ab", Mobile: "9876543210"})
		assert.Equal(t, "Username must be at least 3 characters", Message(err))
	})
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@b.co"))
	assert.False(t, IsEmail("a@b"))
	assert.False(t, IsEmail("a b@c.d"))
}
