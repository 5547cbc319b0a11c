package rfm

import (
	"fmt"
	"strings"
)

// NameSeparator joins the per-dimension names in rfm_name.
const NameSeparator = " · "

// NameTable maps a bin score (1..n_bins) to a human-readable name.
type NameTable map[int]string

// Names holds one lookup table per RFM dimension.
type Names struct {
	Recency   NameTable `yaml:"recency"`
	Frequency NameTable `yaml:"frequency"`
	Monetary  NameTable `yaml:"monetary"`
}

// DefaultNames returns the English 4-bin tables.
func DefaultNames() Names {
	return Names{
		Recency:   NameTable{1: "Dormant", 2: "Cooling", 3: "Warm", 4: "Recent"},
		Frequency: NameTable{1: "One-off", 2: "Rare", 3: "Regular", 4: "Frequent"},
		Monetary:  NameTable{1: "Low value", 2: "Medium", 3: "High", 4: "Premium"},
	}
}

// RussianNames returns the Russian 4-bin tables.
func RussianNames() Names {
	return Names{
		Recency:   NameTable{1: "Спящий", 2: "Остывающий", 3: "Тёплый", 4: "Недавний"},
		Frequency: NameTable{1: "Единичный", 2: "Редкий", 3: "Регулярный", 4: "Частый"},
		Monetary:  NameTable{1: "Низкая ценность", 2: "Средняя", 3: "Высокая", 4: "Премиум"},
	}
}

// NamesFor returns the built-in tables for a language code ("en", "ru").
func NamesFor(lang string) (Names, error) {
	switch strings.ToLower(lang) {
	case "", "en":
		return DefaultNames(), nil
	case "ru":
		return RussianNames(), nil
	default:
		return Names{}, fmt.Errorf("unknown names language %q", lang)
	}
}

// Compose joins the R, F and M names in that order.
func (n Names) Compose(r, f, m int) string {
	return strings.Join([]string{
		n.Recency.lookup("R", r),
		n.Frequency.lookup("F", f),
		n.Monetary.lookup("M", m),
	}, NameSeparator)
}

// lookup falls back to "<dim><bin>" when the table has no entry.
func (t NameTable) lookup(dim string, bin int) string {
	if name, ok := t[bin]; ok {
		return name
	}
	return fmt.Sprintf("%s%d", dim, bin)
}
