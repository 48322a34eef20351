package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestTLSPolicyFromEncryption(t *testing.T) {
	assert.Equal(t, mail.TLSMandatory, tlsPolicyFromEncryption("ssl_tls"))
	assert.Equal(t, mail.TLSOpportunistic, tlsPolicyFromEncryption("starttls"))
	assert.Equal(t, mail.NoTLS, tlsPolicyFromEncryption("none"))
	assert.Equal(t, mail.NoTLS, tlsPolicyFromEncryption(""))
}

func TestSMTPTransport_BuildMsg(t *testing.T) {
	tr := NewSMTPTransport(SMTPConfig{FromAddr: "Job Portal HR <hr@example.com>"})
	req := RenderAcceptance("cand@example.com", "SRE", "Lee", "lee@corp.example")

	m, err := tr.buildMsg(Message{To: []string{req.To, " "}, Subject: req.Subject, HTML: req.HTML, Text: req.Text})
	require.NoError(t, err)

	to := m.GetToString()
	require.Len(t, to, 1, "blank recipients are skipped")
	assert.Contains(t, to[0], "cand@example.com")
	from := m.GetFromString()
	require.Len(t, from, 1)
	assert.Contains(t, from[0], "Job Portal HR")
	assert.Contains(t, from[0], "hr@example.com")
	assert.NotEmpty(t, m.GetMessageID())
}

func TestSMTPTransport_BuildMsgInvalidAddresses(t *testing.T) {
	_, err := NewSMTPTransport(SMTPConfig{FromAddr: "not an address"}).buildMsg(Message{To: []string{"c@example.com"}})
	assert.ErrorContains(t, err, "invalid from address")

	_, err = NewSMTPTransport(SMTPConfig{FromAddr: "hr@example.com"}).buildMsg(Message{To: []string{"@@"}})
	assert.ErrorContains(t, err, "invalid recipient")
}

func TestSMTPTransport_SendUnreachableServer(t *testing.T) {
	tr := NewSMTPTransport(SMTPConfig{
		Host:       "127.0.0.1",
		Port:       1,
		FromAddr:   "hr@example.com",
		Encryption: "none",
		Timeout:    time.Second,
	})

	id, err := tr.Send(context.Background(), Message{To: []string{"c@example.com"}, Subject: "s", HTML: "<p>x</p>"})
	assert.Error(t, err)
	assert.Empty(t, id)
	assert.Equal(t, "smtp", tr.Name())
}
