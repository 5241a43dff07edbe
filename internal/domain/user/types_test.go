//go:build unit

package user_test

import (
	"testing"

	"seckill-service/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  user.Role
		errIs error
	}{
		{name: "customer", input: "customer", want: user.RoleCustomer},
		{name: "operator", input: "operator", want: user.RoleOperator},
		{name: "admin", input: "admin", want: user.RoleAdmin},
		{name: "empty", input: "", errIs: user.ErrInvalidRole},
		{name: "unknown", input: "root", errIs: user.ErrInvalidRole},
		{name: "case sensitive", input: "Admin", errIs: user.ErrInvalidRole},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := user.NewRole(tc.input)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.input, got.String())
		})
	}
}
