package vault

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRemove(t *testing.T) {
	v := New(keyring.NewArrayKeyring(nil))

	_, err := v.Get("TELEGRAM_TOKEN")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	require.NoError(t, v.Set("TELEGRAM_TOKEN", "123:abc"))
	got, err := v.Get("TELEGRAM_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "123:abc", got)

	keys, err := v.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"TELEGRAM_TOKEN"}, keys)

	require.NoError(t, v.Remove("TELEGRAM_TOKEN"))
	_, err = v.Get("TELEGRAM_TOKEN")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestResolve(t *testing.T) {
	v := New(keyring.NewArrayKeyring([]keyring.Item{{Key: "DISCORD_TOKEN", Data: []byte("stored")}}))

	got, err := v.Resolve("from-config", "DISCORD_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "from-config", got)

	got, err = v.Resolve("", "DISCORD_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "stored", got)

	_, err = v.Resolve("", "TELEGRAM_TOKEN")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestTokenKey(t *testing.T) {
	assert.Equal(t, "TELEGRAM_TOKEN", TokenKey("telegram"))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "a********f", Mask("abcdef"))
	assert.Equal(t, "123********xyz", Mask("123456789-xyz"))
}

func TestFilePassphraseIsStable(t *testing.T) {
	assert.Equal(t, filePassphrase(), filePassphrase())
	assert.Len(t, filePassphrase(), 64)
}
