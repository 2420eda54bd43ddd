// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package recipe

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/NVIDIA/layoutcheck/pkg/errors"
)

// TypeDateTime is the field type that requires a Format.
const TypeDateTime = "datetime"

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their document names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(layoutStructLevel, Layout{})
	v.RegisterStructValidation(specStructLevel, Specification{})
	return v
}

func layoutStructLevel(sl validator.StructLevel) {
	l, ok := sl.Current().Interface().(Layout)
	if !ok {
		return
	}
	if l.NumberOfRows > 0 && len(l.Specs) == 0 {
		sl.ReportError(l.Specs, "specs", "Specs", "specs_for_rows", "")
	}
	seen := make(map[string]struct{}, len(l.Configs))
	for _, kv := range l.Configs {
		k := foldKey(kv.Key)
		if _, dup := seen[k]; dup {
			sl.ReportError(l.Configs, "configs", "Configs", "unique_keys", kv.Key)
			return
		}
		seen[k] = struct{}{}
	}
}

func specStructLevel(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(Specification)
	if !ok {
		return
	}
	if foldKey(s.Type) == TypeDateTime && s.Format == "" {
		sl.ReportError(s.Format, "format", "Format", "format_for_datetime", "")
	}
}

// Validate checks the recipe's structure: every layout has a kind, row counts
// and lengths are non-negative, layouts with rows have specs, datetime specs
// carry a format, config keys are unique ignoring case and a declared
// metadata.minVersion parses.
//
// It does not check that kinds and types are registered; see validator.Lint.
func (r *Recipe) Validate() error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidRecipe, "recipe cannot be nil")
	}
	if len(r.Layouts) == 0 {
		return errors.New(errors.ErrCodeInvalidRecipe, "recipe has no layouts")
	}
	if _, _, err := r.MinVersion(); err != nil {
		return err
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidRecipe, "recipe validation failed", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return errors.NewWithContext(errors.ErrCodeInvalidRecipe,
		fmt.Sprintf("invalid recipe: %s", strings.Join(problems, "; ")),
		map[string]any{"problems": problems})
}

func describe(fe validator.FieldError) string {
	// Recipe.layouts[0].specs[1].format -> layouts[0].specs[1].format
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "min":
		return fmt.Sprintf("%s must be >= %s", path, fe.Param())
	case "specs_for_rows":
		return fmt.Sprintf("%s must not be empty when numberOfRows > 0", path)
	case "format_for_datetime":
		return fmt.Sprintf("%s is required for %s fields", path, TypeDateTime)
	case "unique_keys":
		return fmt.Sprintf("%s has duplicate key %q", path, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", path, fe.Tag())
	}
}
