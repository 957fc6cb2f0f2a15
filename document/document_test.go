package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneweave/sceneweave/core"
)

func TestTextExtractorPlainText(t *testing.T) {
	x := NewTextExtractor()

	text, err := x.Extract(context.Background(), Document{
		Name: "notes.txt",
		MIME: MIMEPlainText,
		Data: []byte("  Photosynthesis converts light into chemical energy.\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis converts light into chemical energy.", text)
}

func TestTextExtractorRejectsUnsupportedMIME(t *testing.T) {
	x := NewTextExtractor()

	_, err := x.Extract(context.Background(), Document{Name: "deck.pptx", MIME: MIMEPPTX})
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestTextExtractorRejectsInvalidUTF8(t *testing.T) {
	x := NewTextExtractor()

	_, err := x.Extract(context.Background(), Document{
		Name: "bad.txt",
		MIME: MIMEPlainText,
		Data: []byte{0xff, 0xfe, 0xfd},
	})
	require.Error(t, err)
	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestIsSupportedMIME(t *testing.T) {
	assert.True(t, IsSupportedMIME(MIMEPDF))
	assert.True(t, IsSupportedMIME(MIMEPPTX))
	assert.True(t, IsSupportedMIME(MIMEPlainText))
	assert.False(t, IsSupportedMIME("image/png"))
}
