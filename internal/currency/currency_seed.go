package currency

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type currencyFile struct {
	Currencies []currencyDoc `yaml:"currencies"`
}

type currencyDoc struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
	Active *bool  `yaml:"active"`
}

// LoadCurrencyFile reads a YAML list of currencies.
func LoadCurrencyFile(path string) ([]Currency, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read currency file: %w", err)
	}
	return ParseCurrencies(raw)
}

// ParseCurrencies decodes currencies; active defaults to true.
func ParseCurrencies(raw []byte) ([]Currency, error) {
	var file currencyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode currency file: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Currencies))
	out := make([]Currency, 0, len(file.Currencies))
	for _, doc := range file.Currencies {
		code := strings.ToUpper(strings.TrimSpace(doc.Code))
		if !isCurrencyCode(code) {
			return nil, fmt.Errorf("invalid currency code %q", doc.Code)
		}
		if strings.TrimSpace(doc.Name) == "" {
			return nil, fmt.Errorf("currency %s: name is required", code)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("currency %s listed twice", code)
		}
		seen[code] = struct{}{}

		active := true
		if doc.Active != nil {
			active = *doc.Active
		}
		out = append(out, Currency{
			Code:     code,
			Name:     strings.TrimSpace(doc.Name),
			Symbol:   doc.Symbol,
			IsActive: active,
		})
	}
	return out, nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
