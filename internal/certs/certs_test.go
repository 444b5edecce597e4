package certs

import (
	"crypto/x509"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, s *Store) *x509.Certificate {
	t.Helper()
	cert, err := s.Certificate()
	require.NoError(t, err)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestCertificateIssuedAndReused(t *testing.T) {
	s := NewStore(t.TempDir())

	first := leaf(t, s)
	assert.Contains(t, first.DNSNames, "localhost")
	assert.Len(t, first.IPAddresses, 2)

	certFile, keyFile := s.Paths()
	assert.FileExists(t, certFile)
	info, err := os.Stat(keyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second := leaf(t, s)
	assert.Equal(t, first.SerialNumber, second.SerialNumber)
}

func TestCertificateReissued(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, s *Store)
	}{
		{
			name: "expiring soon",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				s.now = func() time.Time { return time.Now().Add(DefaultLifetime - 24*time.Hour) }
			},
		},
		{
			name: "corrupt key",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				_, keyFile := s.Paths()
				require.NoError(t, os.WriteFile(keyFile, []byte("garbage"), 0o600))
			},
		},
		{
			name: "new host",
			setup: func(t *testing.T, s *Store) {
				t.Helper()
				s.hosts = append(s.hosts, "cartwise.local")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(t.TempDir())
			original := leaf(t, s)

			tt.setup(t, s)

			reissued := leaf(t, s)
			assert.NotEqual(t, original.SerialNumber, reissued.SerialNumber)
		})
	}
}

func TestCustomHosts(t *testing.T) {
	s := NewStore(t.TempDir(), "api.example.test", "10.0.0.5")

	cert := leaf(t, s)
	assert.Equal(t, []string{"api.example.test"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.Equal(t, "10.0.0.5", cert.IPAddresses[0].String())
	assert.NoError(t, cert.VerifyHostname("api.example.test"))
}

func TestTLSConfig(t *testing.T) {
	cfg, err := NewStore(t.TempDir()).TLSConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
	assert.NotZero(t, cfg.MinVersion)
}
