package main

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/storskegg/bt-menu/internal/bluetooth"
)

// Strings are the user-facing texts of the menu.
type Strings struct {
	Prompt          string
	ForgetDevice    string
	RefreshList     string
	ForgetPrompt    string
	NoSavedDevices  string
	Scanning        string
	Searching       string
	ConnectedSuffix string
	Disconnecting   string
	Connecting      string
	Forgotten       string
	PoweringOn      string
	NoResults       string
	ActionFailed    string
}

var supportedLanguages = []language.Tag{language.English, language.Spanish}

var catalog = []Strings{
	{
		Prompt:          "Bluetooth",
		ForgetDevice:    "Forget Device",
		RefreshList:     "Refresh List",
		ForgetPrompt:    "Forget:",
		NoSavedDevices:  "No saved devices",
		Scanning:        "Scanning...",
		Searching:       "Searching for devices...",
		ConnectedSuffix: "(Connected)",
		Disconnecting:   "Disconnecting",
		Connecting:      "Connecting to",
		Forgotten:       "Forgotten",
		PoweringOn:      "Turning Bluetooth on...",
		NoResults:       "Bluetooth unavailable",
		ActionFailed:    "Failed",
	},
	{
		Prompt:          "Bluetooth",
		ForgetDevice:    "Olvidar dispositivo",
		RefreshList:     "Refrescar lista",
		ForgetPrompt:    "Olvidar:",
		NoSavedDevices:  "No hay dispositivos guardados",
		Scanning:        "Escaneando...",
		Searching:       "Buscando dispositivos...",
		ConnectedSuffix: "(Conectado)",
		Disconnecting:   "Desconectando",
		Connecting:      "Conectando a",
		Forgotten:       "Olvidado",
		PoweringOn:      "Encendiendo Bluetooth...",
		NoResults:       "Bluetooth no disponible",
		ActionFailed:    "Error",
	},
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// localeFromEnv returns the first of LC_ALL, LC_MESSAGES, LANG that is set.
func localeFromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// translations picks the catalog entry for a POSIX locale such as
// "es_ES.UTF-8". Unknown locales get English.
func translations(locale string) Strings {
	locale, _, _ = strings.Cut(locale, ".")
	locale, _, _ = strings.Cut(locale, "@")
	locale = strings.ReplaceAll(locale, "_", "-")

	tag, err := language.Parse(locale)
	if err != nil {
		return catalog[0]
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return catalog[0]
	}
	return catalog[idx]
}

// messages maps the menu texts onto engine notifications.
func (s Strings) messages() bluetooth.Messages {
	return bluetooth.Messages{
		Scanning:      s.Scanning,
		Connecting:    s.Connecting,
		Disconnecting: s.Disconnecting,
		Forgotten:     s.Forgotten,
		PoweringOn:    s.PoweringOn,
	}
}
