package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"strefex/pkg/password"
)

func TestHashAndVerify(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hashed, err := password.Hash("Sup3rSecret")
		require.NoError(t, err)
		require.NotEqual(t, "Sup3rSecret", hashed)
		require.True(t, password.Verify("Sup3rSecret", hashed))
	})

	t.Run("wrong password", func(t *testing.T) {
		hashed, err := password.Hash("Sup3rSecret")
		require.NoError(t, err)
		require.False(t, password.Verify("sup3rsecret", hashed))
	})

	t.Run("salted hashes differ but both verify", func(t *testing.T) {
		first, err := password.Hash("Sup3rSecret")
		require.NoError(t, err)
		second, err := password.Hash("Sup3rSecret")
		require.NoError(t, err)
		require.NotEqual(t, first, second)
		require.True(t, password.Verify("Sup3rSecret", first))
		require.True(t, password.Verify("Sup3rSecret", second))
	})

	t.Run("malformed hash is a mismatch", func(t *testing.T) {
		require.False(t, password.Verify("Sup3rSecret", "not-a-bcrypt-hash"))
		require.False(t, password.Verify("Sup3rSecret", ""))
	})
}
