package resolve

import "strings"

// category groups coarse domain keywords in both the original script and
// transliterated form. Assignment is a lookup, not a learned classifier: a
// name belongs to the first category with a keyword inside it, scanned in
// declaration order so assignment is deterministic.
type category struct {
	name     string
	keywords []string
}

var categories = []category{
	{"phone", []string{
		"телефон", "telefon", "phone", "звонок", "zvonok", "call", "номер", "nomer",
	}},
	{"name", []string{
		"имя", "imya", "name", "фамилия", "familiya", "фио", "fio", "клиент", "klient", "client",
	}},
	{"vehicle", []string{
		"авто", "avto", "car", "машин", "mashin", "vehicle", "транспорт", "transport",
	}},
	{"address", []string{
		"адрес", "adres", "address", "город", "gorod", "city",
	}},
	{"email", []string{
		"почта", "pochta", "email", "mail",
	}},
	{"date", []string{
		"дата", "data", "date", "время", "vremya", "time", "запис", "zapis",
	}},
}

// categoryOf returns the matched category name, or "" when none applies.
func categoryOf(name string) string {
	lowered := strings.ToLower(name)
	for _, c := range categories {
		for _, keyword := range c.keywords {
			if strings.Contains(lowered, keyword) {
				return c.name
			}
		}
	}
	return ""
}
