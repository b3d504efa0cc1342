package randx

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsValidUUID(t *testing.T) {
	id := NewID()

	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	assert.NotEqual(t, id, NewID())
}

func TestUserNickname(t *testing.T) {
	nickname, err := UserNickname()
	require.NoError(t, err)

	assert.Len(t, nickname, len("User_")+6)
	assert.Regexp(t, `^User_[0-9A-Za-z]{6}$`, nickname)
}
