package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	t.Parallel()

	// Normalization: case and surrounding whitespace must not matter.
	assert.Equal(t, GravatarURL("a@x.com"), GravatarURL("  A@X.COM "))
	assert.NotEqual(t, GravatarURL("a@x.com"), GravatarURL("b@x.com"))
	assert.Contains(t, GravatarURL("a@x.com"), "gravatar.com/avatar/")
	assert.Contains(t, GravatarURL("a@x.com"), "d=identicon")
}
