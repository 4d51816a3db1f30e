package cryptoutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, KeySize)
}

func TestAESGCM_RoundTrip(t *testing.T) {
	s, err := NewAESGCM(testKey(7))
	require.NoError(t, err)

	plain := []byte(`{"id":"abc","tokens":{"access_token":"secret"}}`)
	sealed, err := s.Seal(plain)
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, string(sealed), "secret")

	again, err := s.Seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce must differ per value")

	got, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestAESGCM_Open(t *testing.T) {
	s, err := NewAESGCM(testKey(1))
	require.NoError(t, err)
	other, err := NewAESGCM(testKey(2))
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("hello"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
		open  Sealer
		isErr error
	}{
		{name: "plain json", input: []byte(`{"id":"x"}`), open: s, isErr: ErrNotSealed},
		{name: "bad base64", input: []byte("v1:***"), open: s},
		{name: "too short", input: []byte("v1:AAAA"), open: s},
		{name: "wrong key", input: sealed, open: other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.open.Open(tt.input)
			require.Error(t, err)
			if tt.isErr != nil {
				assert.ErrorIs(t, err, tt.isErr)
			}
		})
	}
}

func TestNewAESGCM_KeyLength(t *testing.T) {
	_, err := NewAESGCM([]byte("short"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}
