package rest

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"

	"github.com/tasklio/tasklio-go/internal/core/domain"
)

// mapTransportError classifies failures where no response arrived at all.
// Each recognised condition gets its own ConnectionFailed reason; anything
// else passes through unmapped.
func mapTransportError(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETDOWN) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return domain.NewConnectionError("no network connection", err)
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return domain.NewConnectionError("connection reset", err)
	}
	if errors.Is(err, syscall.EHOSTUNREACH) {
		return domain.NewConnectionError("host unreachable", err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.NewConnectionError("host unreachable", err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.NewConnectionError("request timed out", err)
	}

	var recordErr tls.RecordHeaderError
	var certErr *tls.CertificateVerificationError
	var unknownAuthErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &recordErr) || errors.As(err, &certErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &hostnameErr) {
		return domain.NewConnectionError("secure connection failed", err)
	}

	return err
}
