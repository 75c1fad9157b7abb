package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
)

const (
	DefaultSize      = 5
	DefaultWinLength = 4
	DefaultMaxSize   = 20
)

// Form is what the player submits from the settings screen.
type Form struct {
	Size      int `json:"size" validate:"min=3"`
	WinLength int `json:"win_length" validate:"min=3,ltefield=Size"`
}

// Default - the values the settings screen starts with.
func Default() Form {
	return Form{Size: DefaultSize, WinLength: DefaultWinLength}
}

// Config converts the form into an engine config. The engine validates it again.
func (that Form) Config() entity.GameConfig {
	return entity.GameConfig{Size: that.Size, WinLength: that.WinLength}
}

// FormOf - the form showing an existing config.
func FormOf(config entity.GameConfig) Form {
	return Form{Size: config.Size, WinLength: config.WinLength}
}

// Patch is a partial form; a nil field keeps the current value.
type Patch struct {
	Size      *int `json:"size,omitempty"`
	WinLength *int `json:"win_length,omitempty"`
}

// Apply - overlays the patch on form.
func (that Patch) Apply(form Form) Form {
	if that.Size != nil {
		form.Size = *that.Size
	}

	if that.WinLength != nil {
		form.WinLength = *that.WinLength
	}

	return form
}

// Bounds are the advisory limits shown next to the inputs.
type Bounds struct {
	MinSize int
	MaxSize int
}

func DefaultBounds() Bounds {
	return Bounds{MinSize: entity.MinSize, MaxSize: DefaultMaxSize}
}

type Validator struct {
	validate *validator.Validate
	bounds   Bounds
}

func NewValidator(bounds Bounds) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: validate,
		bounds:   bounds,
	}
}

func (that *Validator) Bounds() Bounds {
	return that.bounds
}

// Validate - checks the form against the struct rules and the configured size bounds.
func (that *Validator) Validate(form Form) error {
	if err := that.validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidSettings, describe(err))
	}

	rule := fmt.Sprintf("min=%d,max=%d", that.bounds.MinSize, that.bounds.MaxSize)
	if err := that.validate.Var(form.Size, rule); err != nil {
		return fmt.Errorf("%w: size must be between %d and %d", apperror.ErrInvalidSettings, that.bounds.MinSize, that.bounds.MaxSize)
	}

	return nil
}

// Clamp - does what the number inputs do: unparsable or zero input becomes 3, size is
// held within the bounds and win length within [3, size].
func (that *Validator) Clamp(form Form) Form {
	if form.Size <= 0 {
		form.Size = entity.MinSize
	}
	form.Size = clamp(form.Size, that.bounds.MinSize, that.bounds.MaxSize)

	if form.WinLength <= 0 {
		form.WinLength = entity.MinWinLength
	}
	form.WinLength = clamp(form.WinLength, entity.MinWinLength, form.Size)

	return form
}

func clamp(value, lower, upper int) int {
	return max(lower, min(value, upper))
}

func describe(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param()))
		case "ltefield":
			messages = append(messages, fmt.Sprintf("%s must not exceed size", fieldErr.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	return strings.Join(messages, "; ")
}
