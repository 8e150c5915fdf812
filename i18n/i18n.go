// Package i18n holds the UI strings for the supported languages.
package i18n

import "strings"

// Default is used when the configured language is unknown.
const Default = "cs"

// Strings is the full set of labels a page can render.
type Strings struct {
	Lang       string
	Title      string
	Search     string
	NoIcon     string
	Upload     string
	Label      string
	Weight     string
	Desc       string
	Save       string
	Users      string
	Logout     string
	Filter     string
	FilterBtn  string
	Prev       string
	Next       string
	Page       string
	Login      string
	Username   string
	Password   string
	AddItem    string
	Characters string
	SafeCoords string
	Health     string
	Dead       string
	Coords     string
	Name       string
	Add        string
	Delete     string
	Change     string
	Saved      string
	Failed     string

	LoginFailed   string
	InvalidWeight string
	DescNotStored string
}

var tables = map[string]Strings{
	"cs": {
		Lang:       "cs",
		Title:      "Správa ikon itemů",
		Search:     "Hledat item...",
		NoIcon:     "Žádná ikona",
		Upload:     "Nahrát",
		Label:      "Label",
		Weight:     "Váha",
		Desc:       "Popis",
		Save:       "Uložit",
		Users:      "Uživatelé",
		Logout:     "Odhlásit",
		Filter:     "Pouze bez ikon",
		FilterBtn:  "Filtrovat",
		Prev:       "« Předchozí",
		Next:       "Další »",
		Page:       "Stránka",
		Login:      "Přihlásit",
		Username:   "Jméno",
		Password:   "Heslo",
		AddItem:    "Přidat item",
		Characters: "Postavy",
		SafeCoords: "Bezpečné souřadnice",
		Health:     "Zdraví",
		Dead:       "Mrtvý",
		Coords:     "Souřadnice",
		Name:       "Název",
		Add:        "Přidat",
		Delete:     "Smazat",
		Change:     "Změnit heslo",
		Saved:      "Uloženo",
		Failed:     "Chyba",

		LoginFailed:   "Špatné přihlášení",
		InvalidWeight: "Neplatná váha",
		DescNotStored: "Uloženo bez popisu: tabulka nemá sloupec desc",
	},
	"en": {
		Lang:       "en",
		Title:      "Item Icon Manager",
		Search:     "Search item...",
		NoIcon:     "No icon",
		Upload:     "Upload",
		Label:      "Label",
		Weight:     "Weight",
		Desc:       "Description",
		Save:       "Save",
		Users:      "Users",
		Logout:     "Logout",
		Filter:     "Only without icons",
		FilterBtn:  "Filter",
		Prev:       "« Previous",
		Next:       "Next »",
		Page:       "Page",
		Login:      "Log in",
		Username:   "Username",
		Password:   "Password",
		AddItem:    "Add item",
		Characters: "Characters",
		SafeCoords: "Safe coordinates",
		Health:     "Health",
		Dead:       "Dead",
		Coords:     "Coordinates",
		Name:       "Name",
		Add:        "Add",
		Delete:     "Delete",
		Change:     "Change password",
		Saved:      "Saved",
		Failed:     "Error",

		LoginFailed:   "Invalid username or password",
		InvalidWeight: "Invalid weight",
		DescNotStored: "Saved without description: the table has no desc column",
	},
}

// Normalize maps values such as "en_US.UTF-8" or "EN" to a supported
// language code, falling back to Default.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "_-."); i >= 0 {
		lang = lang[:i]
	}
	if _, ok := tables[lang]; ok {
		return lang
	}
	return Default
}

// Lookup returns the strings for lang.
func Lookup(lang string) Strings {
	return tables[Normalize(lang)]
}
