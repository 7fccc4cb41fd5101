package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "passw0rd1", false},
		{"empty", "", true},
		{"too short", "a1b2c3", true},
		{"no digit", "passwords", true},
		{"no letter", "123456789", true},
		{"exactly eight", "abcdefg1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+15551234567"))
	assert.NoError(t, ValidatePhone("555 123 4567"))
	assert.NoError(t, ValidatePhone("555-123-4567"))
	assert.Error(t, ValidatePhone("12345"))
	assert.Error(t, ValidatePhone("not-a-phone"))
}

func TestValidateGender(t *testing.T) {
	for _, g := range ValidGenders {
		assert.NoError(t, ValidateGender(g))
	}
	assert.Error(t, ValidateGender("male"))
	assert.Error(t, ValidateGender(""))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jane.doe@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2024-09-01"))
	assert.Error(t, ValidateDate("01/09/2024"))
	assert.Error(t, ValidateDate("2024-13-01"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  ", 0))
	assert.Equal(t, "he", SanitizeString("hello", 2))
	assert.Equal(t, "", SanitizeString("   ", 10))
}
