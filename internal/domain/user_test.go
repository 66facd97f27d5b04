package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskcycle-api/internal/domain"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		email    string
		userName string
		password string
		wantErr  error
	}{
		{
			name:     "valid user",
			email:    "ada@example.com",
			userName: "Ada",
			password: "correct horse battery",
		},
		{
			name:     "valid user without name",
			email:    "ada@example.com",
			password: "correct horse battery",
		},
		{
			name:     "empty email",
			password: "correct horse battery",
			wantErr:  domain.ErrEmptyEmail,
		},
		{
			name:     "invalid email",
			email:    "not-an-email",
			password: "correct horse battery",
			wantErr:  domain.ErrInvalidEmail,
		},
		{
			name:     "password too short",
			email:    "ada@example.com",
			password: "short",
			wantErr:  domain.ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			email:    "ada@example.com",
			password: strings.Repeat("a", 73),
			wantErr:  domain.ErrPasswordTooLong,
		},
		{
			name:    "empty password",
			email:   "ada@example.com",
			wantErr: domain.ErrEmptyPassword,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			user, err := domain.NewUser(tc.email, tc.userName, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.email, user.Email)
			assert.Equal(t, tc.userName, user.Name)
		})
	}
}

func TestUserValidateWithHashOnly(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("ada@example.com", "Ada", "correct horse battery")
	require.NoError(t, err)

	// Users loaded from the store carry only the hash.
	user.Password = ""
	user.HashedPassword = "$2a$10$notarealhashbutnotempty"
	assert.NoError(t, user.Validate())
}
