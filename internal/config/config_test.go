package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MASTER_KEY", "")
	t.Setenv("MASTER_ALGORITHM", "")
	t.Setenv("TYPE_ENCRYPT", "")
	t.Setenv("SECRET_DB_TYPE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "aes256-gcm96", cfg.MasterAlgorithm)
	assert.Equal(t, "relational", cfg.SecretDBType)
	assert.Empty(t, cfg.MasterKey)
}

func TestLoad_TypeEncryptAlias(t *testing.T) {
	t.Setenv("MASTER_ALGORITHM", "")
	t.Setenv("TYPE_ENCRYPT", "chacha20-poly1305")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "chacha20-poly1305", cfg.MasterAlgorithm)
}

func TestLoad_MasterKeyHexDecode(t *testing.T) {
	t.Setenv("MASTER_KEY", "00112233")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x11, 0x22, 0x33}, cfg.MasterKey)
}

func TestLoad_InvalidMasterKeyHex(t *testing.T) {
	t.Setenv("MASTER_KEY", "not-hex")

	_, err := Load()
	require.Error(t, err)
}
