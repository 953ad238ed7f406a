package page

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/go-playground/validator/v10"
)

// Preply vocabulary page selectors.
// These are generated class names and WILL break when Preply rebuilds its UI.
// Inspect a vocabulary page in DevTools and override them in .vocabharvest.yaml.
const (
	// Container for each vocabulary card.
	DefaultCardSelector = `div.CardCoreWrapper-sc-5afc26f5-0`

	// Text elements inside a card; the first is the Spanish phrase, the second the English one.
	DefaultTextSelector = `p.Text__uVacy.TextAccent__AfPNQ`

	// Element type scanned for the expand control.
	DefaultExpandTag = `button`

	// Visible label of the expand control.
	DefaultExpandLabel = "Show more"
)

// Selectors describes where the host page keeps its cards and expand control.
type Selectors struct {
	Card        string `mapstructure:"card" yaml:"card" validate:"required,css"`
	Text        string `mapstructure:"text" yaml:"text" validate:"required,css"`
	ExpandTag   string `mapstructure:"expand_tag" yaml:"expand_tag" validate:"required,css"`
	ExpandLabel string `mapstructure:"expand_label" yaml:"expand_label" validate:"required"`
}

// DefaultSelectors returns the selectors for the current Preply markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Card:        DefaultCardSelector,
		Text:        DefaultTextSelector,
		ExpandTag:   DefaultExpandTag,
		ExpandLabel: DefaultExpandLabel,
	}
}

// WithDefaults fills empty fields from DefaultSelectors.
func (s Selectors) WithDefaults() Selectors {
	d := DefaultSelectors()
	if s.Card == "" {
		s.Card = d.Card
	}
	if s.Text == "" {
		s.Text = d.Text
	}
	if s.ExpandTag == "" {
		s.ExpandTag = d.ExpandTag
	}
	if s.ExpandLabel == "" {
		s.ExpandLabel = d.ExpandLabel
	}
	return s
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("css", func(fl validator.FieldLevel) bool {
		_, err := cascadia.Compile(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks that every selector is present and parses as CSS.
func (s Selectors) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid selectors: %w", err)
	}
	return nil
}
