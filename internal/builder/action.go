package builder

import (
	"strings"

	"github.com/lojasmm/embedkit/internal/draft"
)

// Action is a value of the main menu.
type Action string

const (
	ActionEditTitle         Action = "edit_title"
	ActionEditDescription   Action = "edit_description"
	ActionEditColor         Action = "edit_color"
	ActionEditImage         Action = "edit_image"
	ActionAddField          Action = "add_field"
	ActionRemoveField       Action = "remove_field"
	ActionAddButton         Action = "add_button"
	ActionRemoveButton      Action = "remove_button"
	ActionEditButtonLabel   Action = "edit_button_label"
	ActionAddButtonEmoji    Action = "add_button_emoji"
	ActionRemoveButtonEmoji Action = "remove_button_emoji"
	ActionEditButtonStyle   Action = "edit_button_style"
	ActionExportJSON        Action = "export_json"
	ActionImportJSON        Action = "import_json"
	ActionEditFont          Action = "edit_font"
	ActionToggleTimestamp   Action = "toggle_timestamp"
)

// Kind is the response shape of an action.
type Kind int

const (
	KindImmediate Kind = iota
	KindList
	KindForm
	KindTextPrompt
)

type textEdit func(d draft.Draft, text string) (draft.Draft, error)

type actionSpec struct {
	Action Action
	Label  string
	Emoji  string
	Kind   Kind
	Prompt string   // KindTextPrompt only
	Form   FormKind // KindForm only
	apply  textEdit
}

// MenuOption is one entry of the main action menu.
type MenuOption struct {
	Value Action
	Label string
	Emoji string
}

var actionTable = []actionSpec{
	{Action: ActionEditTitle, Label: "Título", Emoji: "📄", Kind: KindTextPrompt,
		Prompt: "📄 Digite o novo título:", apply: editTitle},
	{Action: ActionEditDescription, Label: "Descrição", Emoji: "🔍", Kind: KindTextPrompt,
		Prompt: "🔍 Digite a nova descrição:", apply: editDescription},
	{Action: ActionEditColor, Label: "Cor", Emoji: "⚙️", Kind: KindTextPrompt,
		Prompt: "⚙️ Digite a cor (hex #RRGGBB ou número):", apply: editColor},
	{Action: ActionEditImage, Label: "Imagem", Emoji: "📤", Kind: KindTextPrompt,
		Prompt: "📤 Cole a URL da imagem:", apply: editImage},
	{Action: ActionAddField, Label: "Adicionar Campo", Emoji: "✅", Kind: KindTextPrompt,
		Prompt: "✅ Digite: Nome | Valor", apply: addField},
	{Action: ActionRemoveField, Label: "Remover Campo", Emoji: "🗑️", Kind: KindTextPrompt,
		Prompt: "🗑️ Digite o índice do campo (ex: 1)", apply: removeField},
	{Action: ActionAddButton, Label: "Adicionar Botão", Emoji: "📤", Kind: KindForm, Form: FormAddButton},
	{Action: ActionRemoveButton, Label: "Remover Botão", Emoji: "🗑️", Kind: KindList},
	{Action: ActionEditButtonLabel, Label: "Alterar Label do Botão", Emoji: "📄", Kind: KindTextPrompt,
		Prompt: "📄 Digite: índice | novo label (ex: 1 | Comprar)", apply: editButtonLabel},
	{Action: ActionAddButtonEmoji, Label: "Adicionar Emoji ao Botão", Emoji: "✅", Kind: KindTextPrompt,
		Prompt: "✅ Digite: índice | emoji (ex: 1 | 😄)", apply: addButtonEmoji},
	{Action: ActionRemoveButtonEmoji, Label: "Remover Emoji do Botão", Emoji: "❌", Kind: KindTextPrompt,
		Prompt: "🗑️ Digite: índice (ex: 1)", apply: removeButtonEmoji},
	{Action: ActionEditButtonStyle, Label: "Cor do Botão", Emoji: "⚙️", Kind: KindTextPrompt,
		Prompt: "⚙️ Digite: índice | style (primary/secondary/success/danger/link)", apply: editButtonStyle},
	{Action: ActionExportJSON, Label: "Exportar JSON", Emoji: "🔍", Kind: KindImmediate},
	{Action: ActionImportJSON, Label: "Importar JSON", Emoji: "📤", Kind: KindForm, Form: FormImport},
	{Action: ActionEditFont, Label: "Fonte (experimental)", Emoji: "🔤", Kind: KindForm, Form: FormFont},
	{Action: ActionToggleTimestamp, Label: "Timestamp", Emoji: "⚙️", Kind: KindImmediate},
}

// Menu returns the main menu options in display order.
func Menu() []MenuOption {
	out := make([]MenuOption, len(actionTable))
	for i, a := range actionTable {
		out[i] = MenuOption{Value: a.Action, Label: a.Label, Emoji: a.Emoji}
	}
	return out
}

func lookupAction(value string) (actionSpec, bool) {
	for _, a := range actionTable {
		if string(a.Action) == value {
			return a, true
		}
	}
	return actionSpec{}, false
}

func editTitle(d draft.Draft, text string) (draft.Draft, error) {
	return d.SetTitle(text), nil
}

func editDescription(d draft.Draft, text string) (draft.Draft, error) {
	return d.SetDescription(text), nil
}

func editColor(d draft.Draft, text string) (draft.Draft, error) {
	return d.SetColor(text)
}

func editImage(d draft.Draft, text string) (draft.Draft, error) {
	return d.SetImage(text)
}

func addField(d draft.Draft, text string) (draft.Draft, error) {
	name, value, err := splitPair(text, "Use: Nome | Valor")
	if err != nil {
		return d, err
	}
	return d.AddField(name, value)
}

func removeField(d draft.Draft, text string) (draft.Draft, error) {
	i, err := draft.ParseIndex(text)
	if err != nil {
		return d, err
	}
	return d.RemoveField(i + 1)
}

func editButtonLabel(d draft.Draft, text string) (draft.Draft, error) {
	idx, label, err := splitPair(text, "Use: índice | novo label")
	if err != nil {
		return d, err
	}
	i, err := draft.ParseIndex(idx)
	if err != nil {
		return d, err
	}
	return d.EditButtonLabel(i+1, label)
}

func addButtonEmoji(d draft.Draft, text string) (draft.Draft, error) {
	idx, emoji, err := splitPair(text, "Use: índice | emoji")
	if err != nil {
		return d, err
	}
	i, err := draft.ParseIndex(idx)
	if err != nil {
		return d, err
	}
	return d.SetButtonEmoji(i+1, emoji)
}

func removeButtonEmoji(d draft.Draft, text string) (draft.Draft, error) {
	i, err := draft.ParseIndex(text)
	if err != nil {
		return d, err
	}
	return d.ClearButtonEmoji(i + 1)
}

func editButtonStyle(d draft.Draft, text string) (draft.Draft, error) {
	idx, style, err := splitPair(text, "Use: índice | style")
	if err != nil {
		return d, err
	}
	i, err := draft.ParseIndex(idx)
	if err != nil {
		return d, err
	}
	return d.EditButtonStyle(i+1, style)
}

// splitPair splits "left | right" at the first '|'. Both sides are required;
// later '|' characters stay in the right side.
func splitPair(text, usage string) (string, string, error) {
	left, right, ok := strings.Cut(text, "|")
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if !ok || left == "" || right == "" {
		return "", "", draft.NewError(draft.ErrInvalidInput, usage, nil)
	}
	return left, right, nil
}
