package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-dep2p-quic/config"
	tlssec "github.com/dep2p/go-dep2p-quic/internal/core/security/tls"
)

func TestProvideCA_Bundled(t *testing.T) {
	var ca *tlssec.CA
	app := fxtest.New(t, Module(), fx.Populate(&ca))
	app.RequireStart()
	defer app.RequireStop()

	bundled, err := tlssec.DefaultCA()
	require.NoError(t, err)
	assert.Same(t, bundled, ca)
}

func TestProvideCA_Files(t *testing.T) {
	bundled, err := tlssec.DefaultCA()
	require.NoError(t, err)

	// 缺失的文件
	cfg := config.NewConfig()
	cfg.Security.CACertFile = filepath.Join(t.TempDir(), "ca-cert.pem")
	cfg.Security.CAKeyFile = filepath.Join(t.TempDir(), "ca-key.pem")
	_, err = ProvideCA(ModuleInput{UnifiedCfg: cfg})
	assert.Error(t, err)

	// 证书文件不是 CA
	require.NoError(t, os.WriteFile(cfg.Security.CACertFile, []byte("not pem"), 0o600))
	require.NoError(t, os.WriteFile(cfg.Security.CAKeyFile, []byte("not pem"), 0o600))
	_, err = ProvideCA(ModuleInput{UnifiedCfg: cfg})
	assert.ErrorIs(t, err, tlssec.ErrInvalidCA)

	assert.NotNil(t, bundled.Certificate())
}
