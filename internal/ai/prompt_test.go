package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmojis(t *testing.T) {
	data := []byte(`
emojis:
  SUCCESS: "<:CORRETO:1445291463398129805>"
  ANIMADO: "<a:zfeliz:1445291460625825893>"
  VAZIO: ""
`)
	emojis, err := ParseEmojis(data)
	require.NoError(t, err)
	require.Len(t, emojis, 2)
	assert.Equal(t, "ANIMADO", emojis[0].Name)
	assert.Equal(t, "<:CORRETO:1445291463398129805>", emojis[1].Token)
}

func TestLoadEmojis(t *testing.T) {
	emojis, err := LoadEmojis("")
	require.NoError(t, err)
	assert.Empty(t, emojis)

	path := filepath.Join(t.TempDir(), "emojis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("emojis:\n  PIN: \"<:pin:1>\"\n"), 0o600))
	emojis, err = LoadEmojis(path)
	require.NoError(t, err)
	assert.Equal(t, []Emoji{{Name: "PIN", Token: "<:pin:1>"}}, emojis)

	_, err = LoadEmojis(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuildSystemPrompt(t *testing.T) {
	p := BuildSystemPrompt([]Emoji{{Name: "PIN", Token: "<:pin:1>"}})
	assert.Contains(t, p, "PIN: <:pin:1>")
	assert.Contains(t, p, "Não invente outros emojis")

	p = BuildSystemPrompt(nil)
	assert.Contains(t, p, "Nenhum emoji customizado")
}
