package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Params are the user-controlled settings of one run.
type Params struct {
	DateColumn      string `yaml:"date_column" json:"date_column,omitempty"`
	TargetColumn    string `yaml:"target_column" json:"target_column,omitempty"`
	MetricLabel     string `yaml:"metric_label" json:"metric_label,omitempty" default:"units"`
	Horizon         int    `yaml:"horizon" json:"horizon" default:"14" validate:"min=1"`
	SeasonLength    int    `yaml:"season_length" json:"season_length" default:"7" validate:"min=1"`
	Holdout         int    `yaml:"holdout" json:"holdout" default:"14" validate:"min=3"`
	MissingStrategy string `yaml:"missing_strategy" json:"missing_strategy" default:"interpolate" validate:"oneof=interpolate forward"`
	Model           string `yaml:"model" json:"model" default:"auto"`
}

// ValidationError reports a parameter outside its allowed domain.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

var fieldMessages = map[string]string{
	"Horizon":         "Forecast horizon must be a positive integer.",
	"SeasonLength":    "Season length must be a positive integer.",
	"Holdout":         "Validation holdout must be at least 3.",
	"MissingStrategy": "Missing-value strategy must be one of: interpolate, forward.",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultParams returns Params populated from their default tags.
func DefaultParams() Params {
	var p Params
	if err := defaults.Set(&p); err != nil {
		// Tags are static; a failure here is a programming error.
		panic(fmt.Sprintf("pipeline: invalid default tags: %v", err))
	}
	return p
}

// Validate checks every field against its domain and reports the first violation
// in field order.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg, ok := fieldMessages[fe.StructField()]
	if !ok {
		msg = fmt.Sprintf("Invalid value for %s.", fe.Field())
	}
	return &ValidationError{Field: fe.StructField(), Msg: msg}
}

// LoadParams reads a YAML parameter file over base. Keys absent from the file
// keep the value they have in base.
func LoadParams(path string, base Params) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read params file: %w", err)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, &ValidationError{Field: "params", Msg: fmt.Sprintf("Params file %s is not valid YAML: %v", path, err)}
	}
	return base, nil
}
