package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("squat-every-day")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("squat-every-day", passwordHash))
	assert.False(t, CheckPasswordHash("skip-leg-day", passwordHash))

	otherHash, err := HashPassword("squat-every-day")
	require.NoError(t, err)
	// bcrypt salts, same password hashes differently
	assert.NotEqual(t, passwordHash, otherHash)
	assert.True(t, CheckPasswordHash("squat-every-day", otherHash))
}
