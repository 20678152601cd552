package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelier/internal/config"
)

func TestSend_DisabledLogsInsteadOfSending(t *testing.T) {
	m := New(&config.EmailConfig{Enabled: false})

	response, err := m.Send(context.Background(), "ann@x.com", "Hello", "text", "<p>html</p>")
	require.NoError(t, err)
	assert.Equal(t, "email disabled, message logged", response)
}

func TestSend_EnabledButUnconfigured(t *testing.T) {
	m := New(&config.EmailConfig{Enabled: true})

	_, err := m.Send(context.Background(), "ann@x.com", "Hello", "text", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not properly configured")
}

func TestBuildMessage_MultipartParts(t *testing.T) {
	m := New(&config.EmailConfig{
		FromEmail: "hello@atelier.studio",
		FromName:  "Atelier Studio",
	})

	message := string(m.buildMessage("ann@x.com", "We received your inquiry", "plain text part", "<p>html part</p>"))

	assert.Contains(t, message, "From: Atelier Studio <hello@atelier.studio>")
	assert.Contains(t, message, "To: ann@x.com")
	assert.Contains(t, message, "Subject: We received your inquiry")
	assert.Contains(t, message, "Content-Type: multipart/alternative")
	assert.Contains(t, message, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, message, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, message, "plain text part")
	assert.Contains(t, message, "<p>html part</p>")
}

func TestBuildMessage_TextOnly(t *testing.T) {
	m := New(&config.EmailConfig{FromEmail: "hello@atelier.studio"})

	message := string(m.buildMessage("ann@x.com", "Hello", "just text", ""))

	assert.Contains(t, message, "From: hello@atelier.studio")
	assert.NotContains(t, message, "text/html")
}
