package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Category es una de las cinco dimensiones fijas del assessment.
type Category uint8

const (
	CategoryAptitude Category = iota + 1
	CategoryInterests
	CategoryPersonality
	CategoryEmotionalIntelligence
	CategorySkillsReadiness
)

var ErrUnknownCategory = errors.New("unknown category")

var categoryNames = [...]string{
	CategoryAptitude:              "aptitude",
	CategoryInterests:             "interests",
	CategoryPersonality:           "personality",
	CategoryEmotionalIntelligence: "emotional-intelligence",
	CategorySkillsReadiness:       "skills-readiness",
}

// Categories devuelve las categorias en el orden en que se recorre el assessment.
func Categories() []Category {
	return []Category{
		CategoryAptitude,
		CategoryInterests,
		CategoryPersonality,
		CategoryEmotionalIntelligence,
		CategorySkillsReadiness,
	}
}

func (c Category) Valid() bool {
	return c >= CategoryAptitude && c <= CategorySkillsReadiness
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// ParseCategory acepta el nombre canonico, sin distinguir mayusculas.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(c))
	}
	return []byte(categoryNames[c]), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
