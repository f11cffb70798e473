package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	to, subject, body string
	err               error
}

func (s *captureSender) Send(to, subject, body string) error {
	s.to, s.subject, s.body = to, subject, body
	return s.err
}

func TestHandleMessage(t *testing.T) {
	sender := &captureSender{}
	payload := []byte(`{"email":"a@x.com","verify_link":"http://localhost:3000/api/users/verify/tok123","requested_at":"2026-08-29T10:00:00Z"}`)

	require.NoError(t, handleMessage(payload, sender))
	assert.Equal(t, "a@x.com", sender.to)
	assert.Equal(t, "Verify your email", sender.subject)
	assert.Contains(t, sender.body, "http://localhost:3000/api/users/verify/tok123")
}

func TestHandleMessage_MalformedJSON(t *testing.T) {
	sender := &captureSender{}
	err := handleMessage([]byte(`{not json`), sender)
	require.Error(t, err)
	assert.Empty(t, sender.to, "sender must not be invoked for bad payloads")
}

func TestHandleMessage_MissingFields(t *testing.T) {
	sender := &captureSender{}

	require.Error(t, handleMessage([]byte(`{"email":"a@x.com"}`), sender))
	require.Error(t, handleMessage([]byte(`{"verify_link":"http://x"}`), sender))
	assert.Empty(t, sender.to)
}

func TestHandleMessage_SenderError(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	payload := []byte(`{"email":"a@x.com","verify_link":"http://x/verify/t"}`)

	err := handleMessage(payload, sender)
	require.Error(t, err)
	assert.ErrorContains(t, err, "smtp down")
}
