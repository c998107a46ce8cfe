package draft

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddField_Limit(t *testing.T) {
	d := New("u1")
	var err error
	for i := range MaxFields {
		d, err = d.AddField(fmt.Sprintf("n%d", i), "v")
		require.NoError(t, err)
	}

	next, err := d.AddField("extra", "v")
	assert.ErrorIs(t, err, ErrFieldLimitExceeded)
	assert.Len(t, next.Fields, MaxFields)
	assert.Len(t, d.Fields, MaxFields)
}

func TestRemoveField(t *testing.T) {
	d := New("u1")

	_, err := d.RemoveField(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	d, _ = d.AddField("a", "1")
	d, _ = d.AddField("b", "2")
	d, err = d.RemoveField(1)
	require.NoError(t, err)
	require.Len(t, d.Fields, 1)
	assert.Equal(t, "b", d.Fields[0].Name)
}

func TestMutationsDoNotAliasOriginal(t *testing.T) {
	d := New("u1")
	d, _ = d.AddField("a", "1")
	d, _ = d.AddButton(ButtonInput{Label: "Site", Type: "link", Destination: "https://example.com"})

	_, err := d.RemoveField(1)
	require.NoError(t, err)
	_, err = d.EditButtonLabel(1, "Outro")
	require.NoError(t, err)

	assert.Equal(t, "a", d.Fields[0].Name)
	assert.Equal(t, "Site", d.Buttons[0].Label)
}

func TestSetColor(t *testing.T) {
	d := New("u1")
	d, err := d.SetColor("#00ff00")
	require.NoError(t, err)
	require.NotNil(t, d.Color)
	assert.Equal(t, 0x00ff00, *d.Color)

	next, err := d.SetColor("verde")
	assert.ErrorIs(t, err, ErrInvalidColor)
	assert.Equal(t, 0x00ff00, *next.Color)
}

func TestSetImage(t *testing.T) {
	d, err := New("u1").SetImage("https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", d.Image)

	_, err = d.SetImage("/mnt/data/a.png")
	assert.ErrorIs(t, err, ErrInvalidURL)

	d, err = d.SetImage("")
	require.NoError(t, err)
	assert.Empty(t, d.Image)
}

func TestToggleTimestamp(t *testing.T) {
	d := New("u1").ToggleTimestamp()
	assert.True(t, d.Timestamp)
	assert.False(t, d.ToggleTimestamp().Timestamp)
}

func TestAddButton(t *testing.T) {
	t.Run("link button rejects non-http destination", func(t *testing.T) {
		_, err := New("u1").AddButton(ButtonInput{Label: "x", Type: "link", Destination: "ftp://x"})
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("link button defaults to link style", func(t *testing.T) {
		d, err := New("u1").AddButton(ButtonInput{Label: "x", Type: "link", Destination: "https://example.com"})
		require.NoError(t, err)
		require.Len(t, d.Buttons, 1)
		assert.Equal(t, StyleLink, d.Buttons[0].Style)
		assert.Equal(t, "https://example.com", d.Buttons[0].Destination)
	})

	t.Run("channel button needs a snowflake", func(t *testing.T) {
		_, err := New("u1").AddButton(ButtonInput{Label: "x", Type: "channel", Destination: "general"})
		assert.ErrorIs(t, err, ErrInvalidURL)

		d, err := New("u1").AddButton(ButtonInput{Label: "x", Type: "channel", Destination: "123456789012345678", ContextID: "g1"})
		require.NoError(t, err)
		assert.Equal(t, StylePrimary, d.Buttons[0].Style)
		assert.Equal(t, "g1", d.Buttons[0].ContextID)
	})

	t.Run("normal button drops destination", func(t *testing.T) {
		d, err := New("u1").AddButton(ButtonInput{Label: "x", Type: "normal", Destination: "https://example.com"})
		require.NoError(t, err)
		assert.Empty(t, d.Buttons[0].Destination)
		assert.Equal(t, StylePrimary, d.Buttons[0].Style)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := New("u1").AddButton(ButtonInput{Label: "x", Type: "url"})
		assert.ErrorIs(t, err, ErrInvalidEnum)
	})

	t.Run("label is truncated and defaulted", func(t *testing.T) {
		d, err := New("u1").AddButton(ButtonInput{Label: strings.Repeat("á", 100), Type: "normal"})
		require.NoError(t, err)
		assert.Len(t, []rune(d.Buttons[0].Label), MaxButtonLabel)

		d, err = New("u1").AddButton(ButtonInput{Type: "normal"})
		require.NoError(t, err)
		assert.Equal(t, "Botão", d.Buttons[0].Label)
	})

	t.Run("limit", func(t *testing.T) {
		d := New("u1")
		var err error
		for range MaxButtons {
			d, err = d.AddButton(ButtonInput{Label: "b", Type: "normal"})
			require.NoError(t, err)
		}
		_, err = d.AddButton(ButtonInput{Label: "b", Type: "normal"})
		assert.ErrorIs(t, err, ErrButtonLimitExceeded)
		assert.Len(t, d.Buttons, MaxButtons)
	})
}

func TestRemoveButton_OutOfRange(t *testing.T) {
	d := New("u1")
	d, _ = d.AddButton(ButtonInput{Label: "a", Type: "normal"})
	d, _ = d.AddButton(ButtonInput{Label: "b", Type: "normal"})
	before := d.Clone()

	for _, idx := range []int{-1, 2, 99} {
		next, err := d.RemoveButton(idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.Equal(t, before.Buttons, next.Buttons)
		assert.Equal(t, before.Buttons, d.Buttons)
	}

	d, err := d.RemoveButton(0)
	require.NoError(t, err)
	require.Len(t, d.Buttons, 1)
	assert.Equal(t, "b", d.Buttons[0].Label)
}

func TestEditButton(t *testing.T) {
	d, _ := New("u1").AddButton(ButtonInput{Label: "a", Type: "normal"})

	d, err := d.EditButtonLabel(1, "Comprar")
	require.NoError(t, err)
	assert.Equal(t, "Comprar", d.Buttons[0].Label)

	d, err = d.SetButtonEmoji(1, "😄")
	require.NoError(t, err)
	assert.Equal(t, "😄", d.Buttons[0].Emoji)

	d, err = d.ClearButtonEmoji(1)
	require.NoError(t, err)
	assert.Empty(t, d.Buttons[0].Emoji)

	d, err = d.EditButtonStyle(1, "success")
	require.NoError(t, err)
	assert.Equal(t, StyleSuccess, d.Buttons[0].Style)

	_, err = d.EditButtonStyle(1, "rainbow")
	assert.ErrorIs(t, err, ErrInvalidEnum)

	_, err = d.EditButtonLabel(2, "x")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = d.EditButtonLabel(1, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
