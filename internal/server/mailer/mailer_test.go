package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSender struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func testConfig() SMTPConfig {
	return SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "Clicon.io <no-reply@clicon.io>",
		ReplyTo:  "Support <support@clicon.io>",
		ValidFor: 5 * time.Minute,
	}
}

func withSender(t *testing.T, s sender) {
	t.Helper()
	orig := newSender
	newSender = func(SMTPConfig) (sender, error) { return s, nil }
	t.Cleanup(func() { newSender = orig })
}

func TestSMTPDispatcher_SendOTP(t *testing.T) {
	fake := &fakeSender{}
	withSender(t, fake)

	d, err := NewSMTPDispatcher(testConfig(), logging.Nop())
	require.NoError(t, err)

	require.NoError(t, d.SendOTP(context.Background(), "Jane", "jane@x.com", "123456"))
	require.Len(t, fake.sent, 1)

	var buf bytes.Buffer
	_, err = fake.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: Your OTP Code - Clicon.io")
	assert.Contains(t, raw, "no-reply@clicon.io")
	assert.Contains(t, raw, "support@clicon.io")
	assert.Contains(t, raw, "jane@x.com")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "123456")
}

func TestSMTPDispatcher_SendFailure(t *testing.T) {
	withSender(t, &fakeSender{err: errors.New("connection refused")})

	d, err := NewSMTPDispatcher(testConfig(), logging.Nop())
	require.NoError(t, err)

	err = d.SendOTP(context.Background(), "Jane", "jane@x.com", "123456")
	assert.ErrorIs(t, err, common.ErrMailDispatch)
}

func TestSMTPDispatcher_BadRecipient(t *testing.T) {
	fake := &fakeSender{}
	withSender(t, fake)

	d, err := NewSMTPDispatcher(testConfig(), logging.Nop())
	require.NoError(t, err)

	err = d.SendOTP(context.Background(), "Jane", "not an address", "123456")
	assert.ErrorIs(t, err, common.ErrMailDispatch)
	assert.Empty(t, fake.sent)
}

func TestNewSMTPDispatcher_ClientError(t *testing.T) {
	orig := newSender
	newSender = func(SMTPConfig) (sender, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { newSender = orig })

	_, err := NewSMTPDispatcher(testConfig(), logging.Nop())
	assert.Error(t, err)
}

func TestNewSMTPDispatcher_RealClient(t *testing.T) {
	cfg := testConfig()
	cfg.Username = "user"
	cfg.Password = "pass"

	d, err := NewSMTPDispatcher(cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &mail.Client{}, d.client)
}

func TestRenderOTP(t *testing.T) {
	body, err := renderOTP("Jane <script>", "042133", 5*time.Minute)
	require.NoError(t, err)

	assert.Contains(t, body, "Dear Jane &lt;script&gt;,")
	assert.Contains(t, body, `<div class="otp-container">042133</div>`)
	assert.Contains(t, body, "This OTP is valid for 5 minutes.")
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "1 minute", humanize(time.Minute))
	assert.Equal(t, "10 minutes", humanize(10*time.Minute))
	assert.Equal(t, "1m30s", humanize(90*time.Second))
}
