// Package i18n holds the message catalog used by templates and flash messages.
package i18n

import (
	"context"
	"strings"
)

const DefaultLang = "pl"

var messages = map[string]map[string]string{
	"pl": {
		// validation
		"required":             "Pole wymagane",
		"invalid_number":       "Podaj liczbę całkowitą",
		"invalid_choice":       "Nieprawidłowy wybór",
		"must_not_be_negative": "Wartość nie może być ujemna",
		"must_be_positive":     "Wartość musi być dodatnia",
		"out_of_range":         "Wartość poza zakresem",
		"code_already_exists":  "Kod już istnieje",
		"invalid_extension":    "Niedozwolony typ pliku",

		// flash
		"duplicate_material":  "Taki materiał już istnieje",
		"duplicate_thickness": "Taka grubość już istnieje",
		"material_added":      "Dodano materiał",
		"thickness_added":     "Dodano grubość",
		"sheet_added":         "Dodano blachę",
		"sheet_updated":       "Zapisano zmiany",
		"sheet_deleted":       "Blacha została usunięta",
		"files_uploaded":      "Pliki zostały załadowane",
		"no_files":            "Nie wybrano plików",
		"project_added":       "Dodano projekt",
		"project_archived":    "Projekt zarchiwizowany",
		"item_added":          "Dodano pozycję",
		"item_updated":        "Zapisano pozycję",
		"item_deleted":        "Usunięto pozycję",
		"offer_empty":         "Nie ma blach do oferty!",
		"order_empty":         "Zamówienie jest puste",
		"order_confirmed":     "Zamówienie zostało zapisane",
		"order_deleted":       "Zamówienie zostało usunięte",
		"order_item_deleted":  "Usunięto pozycję zamówienia",
		"overrides_saved":     "Zapisano wybór blach",
		"sheet_missing":       "Jedna z blach została usunięta, przygotuj zamówienie ponownie",

		// labels
		"app_title":       "Magazyn blach",
		"nav_sheets":      "Blachy",
		"nav_catalog":     "Materiały",
		"nav_projects":    "Projekty",
		"nav_orders":      "Zamówienia",
		"nav_orders_list": "Historia zamówień",
		"name":            "Nazwa",
		"short_name":      "Nazwa skrócona",
		"code":            "Kod",
		"material":        "Materiał",
		"thickness":       "Grubość",
		"processing_type": "Obróbka",
		"on_hand":         "Stan obecny",
		"needed":          "Stan potrzebny",
		"shortage":        "Brak",
		"quantity":        "Ilość",
		"required_qty":    "Ilość potrzebna",
		"fulfilled":       "Zrealizowano",
		"actions":         "Akcje",
		"save":            "Zapisz",
		"add":             "Dodaj",
		"edit":            "Edytuj",
		"delete":          "Usuń",
		"upload":          "Pliki",
		"archive":         "Archiwizuj",
		"archived":        "Zarchiwizowany",
		"details":         "Szczegóły",
		"export_zip":      "Pobierz ZIP",
		"export_xlsx":     "Pobierz XLSX",
		"generate_txt":    "Generuj ofertę TXT",
		"confirm_order":   "Zatwierdź zamówienie",
		"prepare_order":   "Przygotuj zamówienie",
		"override":        "Dodaj do oferty",
		"add_sheet":       "Dodaj blachę",
		"add_material":    "Dodaj materiał",
		"add_thickness":   "Dodaj grubość",
		"add_project":     "Dodaj projekt",
		"add_item":        "Dodaj pozycję",
		"sheet":           "Blacha",
		"project":         "Projekt",
		"order":           "Zamówienie",
		"created_at":      "Data",
		"items":           "Pozycje",
		"total":           "Razem",
		"none":            "Brak danych",
		"back":            "Wróć",
		"choose":          "-- wybierz --",
	},
	"en": {
		"required":             "Required",
		"invalid_number":       "Enter a whole number",
		"invalid_choice":       "Invalid choice",
		"must_not_be_negative": "Must not be negative",
		"must_be_positive":     "Must be positive",
		"out_of_range":         "Out of range",
		"code_already_exists":  "Code already exists",
		"invalid_extension":    "File type not allowed",

		"duplicate_material":  "Material already exists",
		"duplicate_thickness": "Thickness already exists",
		"material_added":      "Material added",
		"thickness_added":     "Thickness added",
		"sheet_added":         "Sheet added",
		"sheet_updated":       "Changes saved",
		"sheet_deleted":       "Sheet deleted",
		"files_uploaded":      "Files uploaded",
		"no_files":            "No files selected",
		"project_added":       "Project added",
		"project_archived":    "Project archived",
		"item_added":          "Item added",
		"item_updated":        "Item saved",
		"item_deleted":        "Item deleted",
		"offer_empty":         "No sheets to offer!",
		"order_empty":         "The order is empty",
		"order_confirmed":     "Order saved",
		"order_deleted":       "Order deleted",
		"order_item_deleted":  "Order item deleted",
		"overrides_saved":     "Selection saved",
		"sheet_missing":       "A sheet was removed, prepare the order again",

		"app_title":       "Sheet stock",
		"nav_sheets":      "Sheets",
		"nav_catalog":     "Materials",
		"nav_projects":    "Projects",
		"nav_orders":      "Orders",
		"nav_orders_list": "Order history",
		"name":            "Name",
		"short_name":      "Short name",
		"code":            "Code",
		"material":        "Material",
		"thickness":       "Thickness",
		"processing_type": "Processing",
		"on_hand":         "On hand",
		"needed":          "Needed",
		"shortage":        "Shortage",
		"quantity":        "Quantity",
		"required_qty":    "Required quantity",
		"fulfilled":       "Fulfilled",
		"actions":         "Actions",
		"save":            "Save",
		"add":             "Add",
		"edit":            "Edit",
		"delete":          "Delete",
		"upload":          "Files",
		"archive":         "Archive",
		"archived":        "Archived",
		"details":         "Details",
		"export_zip":      "Download ZIP",
		"export_xlsx":     "Download XLSX",
		"generate_txt":    "Generate TXT offer",
		"confirm_order":   "Confirm order",
		"prepare_order":   "Prepare order",
		"override":        "Add to offer",
		"add_sheet":       "Add sheet",
		"add_material":    "Add material",
		"add_thickness":   "Add thickness",
		"add_project":     "Add project",
		"add_item":        "Add item",
		"sheet":           "Sheet",
		"project":         "Project",
		"order":           "Order",
		"created_at":      "Date",
		"items":           "Items",
		"total":           "Total",
		"none":            "No data",
		"back":            "Back",
		"choose":          "-- choose --",
	},
}

// T translates code into lang, falling back to the default language and
// finally to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}

type langKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the request language or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(langKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultLang
}
