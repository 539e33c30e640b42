package sender

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: fmt.Errorf("send: %w", context.DeadlineExceeded), want: KindTimeout},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "api.telegram.org"}, want: KindDNS},
		{name: "dns timeout", err: &net.DNSError{Err: "i/o timeout", Name: "api.telegram.org", IsTimeout: true}, want: KindTimeout},
		{name: "dial", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, want: KindDial},
		{
			name: "dial inside url error",
			err:  &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}},
			want: KindDial,
		},
		{name: "api 403", err: &tele.Error{Code: 403, Description: "Forbidden: bot was blocked by the user"}, want: KindHTTP4xx},
		{name: "status in message", err: errors.New("telegram: Internal Server Error (502)"), want: KindHTTP5xx},
		{name: "plain", err: errors.New("boom"), want: KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
	assert.Empty(t, classifyError(nil))
}

func TestHTTPStatusFromError(t *testing.T) {
	assert.Equal(t, 403, httpStatusFromError(&tele.Error{Code: 403}))
	assert.Equal(t, 400, httpStatusFromError(errors.New("telegram: Bad Request: message to copy not found (400)")))
	assert.Zero(t, httpStatusFromError(errors.New("no code (abc)")))
	assert.Zero(t, httpStatusFromError(errors.New("no parens")))
	assert.Zero(t, httpStatusFromError(nil))
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAH-secret_token/copyMessage": dial tcp: i/o timeout`)
	got := sanitizeErrorMessage(err)
	assert.NotContains(t, got, "AAH-secret_token")
	assert.Contains(t, got, "bot<redacted>/copyMessage")
	assert.Empty(t, sanitizeErrorMessage(nil))
}

func TestReportErrorWithoutContext(t *testing.T) {
	assert.NotPanics(t, func() {
		ReportError(errors.New("telegram: Forbidden (403)"), nil)
		ReportError(nil, nil)
	})
}
