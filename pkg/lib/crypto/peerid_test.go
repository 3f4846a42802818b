package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeerIDFromPrivateKey(t *testing.T) {
	priv, pub, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)

	id1, err := PeerIDFromPrivateKey(priv)
	require.NoError(t, err)
	id2, err := PeerIDFromPublicKey(pub)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "私钥与公钥派生结果应一致")
	assert.NoError(t, id1.Validate())

	ok, err := VerifyPeerID(pub, id1)
	require.NoError(t, err)
	assert.True(t, ok)

	other, _, err := GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)
	otherID, err := PeerIDFromPrivateKey(other)
	require.NoError(t, err)
	assert.NotEqual(t, id1, otherID)
}

func TestPeerIDFromPrivateKey_Nil(t *testing.T) {
	_, err := PeerIDFromPrivateKey(nil)
	assert.ErrorIs(t, err, ErrNilPrivateKey)
}
