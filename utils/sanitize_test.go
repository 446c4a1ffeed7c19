package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDropsScripts(t *testing.T) {
	assert.Equal(t, "hello", Sanitize(`<script>alert(1)</script>hello`))
}

func TestSanitizeKeepsUGCMarkup(t *testing.T) {
	assert.Equal(t, "<b>bold</b>", Sanitize("<b>bold</b>"))
}

func TestSanitizeTextStripsAllMarkup(t *testing.T) {
	assert.Equal(t, "Ada", SanitizeText("<b>Ada</b>"))
}

func TestSanitizeTextKeepsPunctuation(t *testing.T) {
	assert.Equal(t, "O'Brien", SanitizeText("O'Brien"))
	assert.Equal(t, "AT&T", SanitizeText("AT&T"))
}
