package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mohessea007/FNE/internal/types"
)

func TestIsAuthorityUUID(t *testing.T) {
	assert.True(t, types.IsAuthorityUUID("3fa85f64-5717-4562-b3fc-2c963f66afa6"))

	// Locally generated references and junk must be filtered out of the
	// certification snapshot.
	assert.False(t, types.IsAuthorityUUID(""))
	assert.False(t, types.IsAuthorityUUID("REF-001"))
	assert.False(t, types.IsAuthorityUUID("3fa85f64-5717-4562-b3fc"))
	assert.False(t, types.IsAuthorityUUID("3fa85f6457174562b3fc2c963f66afa6"))
}

func TestGenerateUID(t *testing.T) {
	uid := types.GenerateUID()
	assert.True(t, types.IsAuthorityUUID(uid))
	assert.NotEqual(t, uid, types.GenerateUID())
}
