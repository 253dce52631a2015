// Package mcpquic carries the ingestion MCP tools over QUIC: one
// bidirectional stream per connection, newline-delimited JSON-RPC, opened
// by a 4-byte preamble so a stray client on the same port is rejected early.
package mcpquic

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

const (
	ALPN        = "ncrp-mcp-v1"
	Preamble    = "NCR1"
	IdleTimeout = 5 * time.Minute
	KeepAlive   = 30 * time.Second
)

const (
	codeOK                quic.ApplicationErrorCode = 0x00
	codeUnsupportedALPN   quic.ApplicationErrorCode = 0x01
	codeProtocolViolation quic.ApplicationErrorCode = 0x03

	streamCodeBadPreamble quic.StreamErrorCode = 0x02
)

var (
	ErrBadPreamble     = errors.New("mcpquic: bad stream preamble")
	ErrUnsupportedALPN = errors.New("mcpquic: " + ALPN + " not negotiated")
	ErrNotConnected    = errors.New("mcpquic: client not connected")
)

// QUICConfig is shared by listener and client.
func QUICConfig() *quic.Config {
	return &quic.Config{
		MaxStreamReceiveWindow:     10 << 20,
		MaxConnectionReceiveWindow: 50 << 20,
		MaxIdleTimeout:             IdleTimeout,
		KeepAlivePeriod:            KeepAlive,
	}
}

// ServerTLS loads certFile/keyFile, or generates a self-signed localhost
// certificate when both are empty.
func ServerTLS(certFile, keyFile string) (*tls.Config, error) {
	var (
		cert tls.Certificate
		err  error
	)
	if certFile != "" || keyFile != "" {
		cert, err = tls.LoadX509KeyPair(certFile, keyFile)
	} else {
		cert, err = selfSigned()
	}
	if err != nil {
		return nil, fmt.Errorf("tls certificate: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPN},
		MinVersion:   tls.VersionTLS13,
	}, nil
}

// ClientTLS returns the client side config. insecure skips certificate
// verification, for self-signed development servers.
func ClientTLS(insecure bool) *tls.Config {
	return &tls.Config{
		NextProtos:         []string{ALPN},
		MinVersion:         tls.VersionTLS13,
		InsecureSkipVerify: insecure,
	}
}

func selfSigned() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, err
	}
	now := time.Now()
	tmpl := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{Organization: []string{"ncrp-ingest dev"}, CommonName: "localhost"},
		NotBefore:    now,
		NotAfter:     now.Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, nil
}

func readPreamble(r io.Reader) error {
	buf := make([]byte, len(Preamble))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read preamble: %w", err)
	}
	if !bytes.Equal(buf, []byte(Preamble)) {
		return fmt.Errorf("%w: got %q", ErrBadPreamble, buf)
	}
	return nil
}

func writePreamble(w io.Writer) error {
	if _, err := io.WriteString(w, Preamble); err != nil {
		return fmt.Errorf("write preamble: %w", err)
	}
	return nil
}
