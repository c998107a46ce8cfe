package discord

import (
	"strings"

	"github.com/lojasmm/embedkit/internal/builder"
)

// Custom IDs look like "embed:<kind>|<owner>". The owner travels with every
// component and modal so the dispatcher can reject other users.
const (
	idPrefix = "embed:"
	idSep    = "|"

	KindMenu    = "menu"
	KindPublish = "publish"
	KindCancel  = "cancel"
	KindRemove  = "remove"
	kindForm    = "form-"
)

func EncodeID(kind, owner string) string {
	return idPrefix + kind + idSep + owner
}

// DecodeID splits a custom ID produced by EncodeID.
func DecodeID(customID string) (kind, owner string, ok bool) {
	rest, found := strings.CutPrefix(customID, idPrefix)
	if !found {
		return "", "", false
	}
	kind, owner, found = strings.Cut(rest, idSep)
	if !found || kind == "" || owner == "" {
		return "", "", false
	}
	return kind, owner, true
}

// FormID is the modal custom ID for a form kind.
func FormID(kind builder.FormKind, owner string) string {
	return EncodeID(kindForm+string(kind), owner)
}

// FormKindOf extracts the form kind from a decoded modal kind.
func FormKindOf(kind string) (builder.FormKind, bool) {
	k, ok := strings.CutPrefix(kind, kindForm)
	if !ok || k == "" {
		return "", false
	}
	return builder.FormKind(k), true
}
