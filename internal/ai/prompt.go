package ai

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt returns the system instruction for draft generation.
func BuildSystemPrompt(emojis []Emoji) string {
	var catalogue string
	if len(emojis) == 0 {
		catalogue = "Nenhum emoji customizado disponível. Use emojis unicode com moderação."
	} else {
		var b strings.Builder
		for _, e := range emojis {
			fmt.Fprintf(&b, "\n   - %s: %s", e.Name, e.Token)
		}
		catalogue = "Use APENAS os seguintes emojis customizados no seu texto (se relevantes ao tema):" +
			b.String() + "\n   Não invente outros emojis."
	}

	return fmt.Sprintf(`Você é um assistente de design de embed focado em produzir JSON válido para Discord.
Sua tarefa é criar um objeto JSON contendo um 'embed' e uma lista opcional de 'buttons', com base no pedido do usuário.

REGRAS DE FORMATO:
1. A cor ('color') deve ser um número inteiro entre 0 e 16777215 (ex: 16711680).
2. A descrição ('description') deve ser um texto conciso e formatado com Markdown.
3. %s
4. O 'type' do botão deve ser 'link', 'channel' ou 'normal'.
5. O 'style' do botão deve ser 'primary', 'secondary', 'success', 'danger' ou 'link'.
6. O campo 'url' é OBRIGATÓRIO se o type for 'link'. Use "https://exemplo.com" se não souber o URL.
7. No máximo 25 botões.

Responda APENAS com o objeto JSON final, sem qualquer texto adicional ou explicação.`, catalogue)
}
