package taxbracket

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type scheduleFile struct {
	Schedules []scheduleDoc `yaml:"schedules"`
}

type scheduleDoc struct {
	Country  string       `yaml:"country"`
	Currency string       `yaml:"currency"`
	Year     int          `yaml:"year"`
	Brackets []bracketDoc `yaml:"brackets"`
}

type bracketDoc struct {
	Name  string `yaml:"name"`
	Min   string `yaml:"min"`
	Max   string `yaml:"max"`
	Rate  string `yaml:"rate"`
	Fixed string `yaml:"fixed"`
}

// LoadScheduleFile reads and validates a YAML schedule file.
func LoadScheduleFile(path string) ([]TaxBracket, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule file: %w", err)
	}
	return ParseSchedules(raw)
}

// ParseSchedules decodes YAML schedules and validates each scope.
func ParseSchedules(raw []byte) ([]TaxBracket, error) {
	var file scheduleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode schedule file: %w", err)
	}

	var out []TaxBracket
	for _, doc := range file.Schedules {
		if len(doc.Country) != 2 || len(doc.Currency) != 3 || doc.Year <= 0 {
			return nil, fmt.Errorf("invalid schedule scope %q/%q/%d", doc.Country, doc.Currency, doc.Year)
		}

		scope := make([]TaxBracket, 0, len(doc.Brackets))
		for _, bd := range doc.Brackets {
			b, err := bd.toBracket(doc)
			if err != nil {
				return nil, err
			}
			scope = append(scope, b)
		}

		if err := ValidateSchedule(scope); err != nil {
			return nil, fmt.Errorf("schedule %s/%s/%d: %w", doc.Country, doc.Currency, doc.Year, err)
		}
		out = append(out, scope...)
	}
	return out, nil
}

func (bd bracketDoc) toBracket(doc scheduleDoc) (TaxBracket, error) {
	parse := func(field, v string) (decimal.Decimal, error) {
		if v == "" {
			v = "0"
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bracket %q: invalid %s %q", bd.Name, field, v)
		}
		return d, nil
	}

	minAmount, err := parse("min", bd.Min)
	if err != nil {
		return TaxBracket{}, err
	}
	maxAmount, err := parse("max", bd.Max)
	if err != nil {
		return TaxBracket{}, err
	}
	rate, err := parse("rate", bd.Rate)
	if err != nil {
		return TaxBracket{}, err
	}
	fixed, err := parse("fixed", bd.Fixed)
	if err != nil {
		return TaxBracket{}, err
	}

	return TaxBracket{
		CountryCode:  strings.ToUpper(doc.Country),
		CurrencyCode: strings.ToUpper(doc.Currency),
		TaxYear:      doc.Year,
		BracketName:  bd.Name,
		MinAmount:    minAmount,
		MaxAmount:    maxAmount,
		TaxRate:      rate,
		FixedAmount:  fixed,
	}, nil
}
