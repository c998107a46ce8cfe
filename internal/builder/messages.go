package builder

import (
	"errors"
	"fmt"

	"github.com/lojasmm/embedkit/internal/draft"
	"github.com/lojasmm/embedkit/internal/store"
)

const maxMessageLen = 2000

const (
	msgPanelLoaded     = "Painel carregado! Seu rascunho foi recuperado ou iniciado."
	msgGenerated       = "Embed gerado pela IA! Edite a partir daqui."
	msgGenerationOff   = "A geração por IA não está configurada neste bot."
	msgRateLimited     = "Você está gerando embeds muito rápido. Aguarde um minuto e tente novamente."
	msgSessionMissing  = "Sessão expirada ou não encontrada. Use `/embed-builder` para começar."
	msgPermission      = "Apenas o criador pode usar isso."
	msgUnknownAction   = "Ação desconhecida."
	msgTimestamp       = "Timestamp atualizado!"
	msgExportReady     = "**Seu JSON está pronto:**"
	msgNoButtons       = "Nenhum botão para remover."
	msgPickButton      = "Selecione o botão para remover:"
	msgButtonRemoved   = "Botão removido!"
	msgButtonAdded     = "Botão adicionado!"
	msgImported        = "JSON importado!"
	msgFontUpdated     = "Fonte atualizada!"
	msgUpdated         = "Atualizado!"
	msgTimeout         = "Tempo esgotado — operação cancelada."
	msgPromptReplaced  = "Esta pergunta não está mais ativa."
	msgPublished       = "🎉 Publicado!"
	msgPublishFailed   = "Não foi possível publicar o embed. Seu rascunho foi mantido."
	msgCancelled       = "Sessão cancelada."
	msgInternalError   = "Ocorreu um erro interno."
	msgGenerationError = "Erro ao gerar embed com IA: o serviço falhou ou retornou um formato JSON inválido."
	msgGenerationShape = "A IA retornou um embed fora do formato esperado. Tente novamente."

	defaultTitle       = "Novo Embed em Construção"
	defaultDescription = "Use o menu abaixo para editar."
	defaultColor       = 0x7B1FA2
)

// errorText renders a typed error as "code + message".
func errorText(err error) string {
	var de *draft.Error
	if errors.As(err, &de) {
		return fmt.Sprintf("⚠️ Ocorreu um erro (Código %s):\n`%s`", de.Type, de.Message)
	}
	var t draft.ErrorType
	if errors.As(err, &t) {
		return fmt.Sprintf("⚠️ Ocorreu um erro (Código %s)", t)
	}
	return msgInternalError
}

// isUserError reports whether err belongs to the user-facing taxonomy.
func isUserError(err error) bool {
	var de *draft.Error
	var t draft.ErrorType
	return errors.As(err, &de) || errors.As(err, &t)
}

func notice(content string) View {
	return View{Content: content, Ephemeral: true}
}

func panel(sess *store.Session, content string) View {
	d := sess.Draft.Clone()
	return View{
		Content:   content,
		Preview:   &d,
		Controls:  Controls{Kind: ControlsPanel},
		OwnerID:   sess.OwnerID,
		Ephemeral: true,
	}
}

func defaultDraft(ownerID string) draft.Draft {
	d := draft.New(ownerID).SetTitle(defaultTitle).SetDescription(defaultDescription)
	c := defaultColor
	d.Color = &c
	return d
}

var (
	errSessionMissing = draft.NewError(draft.ErrSessionMissing, msgSessionMissing, nil)
	errPermission     = draft.NewError(draft.ErrPermissionDenied, msgPermission, nil)
	errPromptPending  = draft.NewError(draft.ErrPromptPending, "Já existe uma pergunta aguardando sua resposta neste painel.", nil)
)
