package fiscal

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

var ErrCertificateExpired = errors.New("fiscal certificate expired")

// LoadCertificate reads an A1 certificate (PKCS#12) for mutual TLS with the
// NFS-e endpoint.
func LoadCertificate(path, password string) (tls.Certificate, error) {
	pfx, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("reading certificate: %w", err)
	}
	return DecodeCertificate(pfx, password)
}

func DecodeCertificate(pfx []byte, password string) (tls.Certificate, error) {
	key, leaf, chain, err := pkcs12.DecodeChain(pfx, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decoding certificate: %w", err)
	}
	if leaf == nil {
		return tls.Certificate{}, errors.New("certificate without leaf")
	}
	cert := tls.Certificate{PrivateKey: key, Leaf: leaf, Certificate: [][]byte{leaf.Raw}}
	for _, c := range chain {
		cert.Certificate = append(cert.Certificate, c.Raw)
	}
	return cert, nil
}

func checkValidity(leaf *x509.Certificate, now time.Time) error {
	if leaf == nil {
		return nil
	}
	if now.After(leaf.NotAfter) {
		return fmt.Errorf("%w on %s", ErrCertificateExpired, leaf.NotAfter.Format("2006-01-02"))
	}
	return nil
}
