package draft

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	MaxColor       = 0xFFFFFF
	MaxFields      = 25
	MaxButtons     = 25
	MaxButtonLabel = 80
)

var (
	hexColorRe  = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	decimalRe   = regexp.MustCompile(`^[0-9]+$`)
	channelIDRe = regexp.MustCompile(`^[0-9]{17,19}$`)
)

// NormalizeColor accepts "#RRGGBB" or a decimal numeral in [0, 0xFFFFFF].
// Zero is a valid color, only empty input is rejected as empty.
func NormalizeColor(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, newError(ErrInvalidColor, "Cor vazia")
	}
	if strings.HasPrefix(s, "#") {
		if !hexColorRe.MatchString(s) {
			return 0, newError(ErrInvalidColor, "HEX inválido. Use #RRGGBB (ex: #ff0000)")
		}
		n, _ := strconv.ParseInt(s[1:], 16, 32)
		return int(n), nil
	}
	if decimalRe.MatchString(s) {
		n, err := strconv.Atoi(s)
		if err == nil && n <= MaxColor {
			return n, nil
		}
	}
	return 0, newError(ErrInvalidColor, "Formato de cor inválido. Use #RRGGBB ou um número entre 0 e 16777215.")
}

// NormalizeURL returns the trimmed URL when it is an absolute http(s) URL with a host.
func NormalizeURL(input string) (string, bool) {
	s := strings.TrimSpace(input)
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	return s, true
}

// ParseIndex converts a 1-based user index into a 0-based storage index.
func ParseIndex(token string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || n < 1 {
		return 0, newError(ErrInvalidIndex, "Índice inválido: %q", strings.TrimSpace(token))
	}
	return n - 1, nil
}

// ValidChannelID reports whether s looks like a Discord snowflake.
func ValidChannelID(s string) bool {
	return channelIDRe.MatchString(s)
}

// ParseButtonType checks membership in the fixed type enumeration.
func ParseButtonType(input string) (ButtonType, error) {
	switch t := ButtonType(strings.ToLower(strings.TrimSpace(input))); t {
	case TypeNormal, TypeLink, TypeChannel:
		return t, nil
	}
	return "", newError(ErrInvalidEnum, "Tipo inválido (use: link/channel/normal)")
}

// ParseButtonStyle checks membership in the fixed style enumeration.
func ParseButtonStyle(input string) (ButtonStyle, error) {
	switch s := ButtonStyle(strings.ToLower(strings.TrimSpace(input))); s {
	case StylePrimary, StyleSecondary, StyleSuccess, StyleDanger, StyleLink:
		return s, nil
	}
	return "", newError(ErrInvalidEnum, "Style inválido (use: primary/secondary/success/danger/link)")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
