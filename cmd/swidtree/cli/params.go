// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// FlagsFromParams returns a [pflag.FlagSet] named name with one flag per
// tagged field of params, which must be a pointer to a struct. Invalid
// params are a programming error and panic.
//
// [Command.Execute] calls this with the result of [Command.Params]:
//
//	var params generateParams
//	command := &cli.Command{
//	    Params: func() any { return &params },
//	    Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
//	        // params holds the parsed flags here
//	    },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers a flag on flagSet for every tagged field of
// params, which must be a pointer to a struct.
//
// A field is bound when it carries flag:"name" or flag:"name,n" (long
// name and one-letter shorthand). desc:"..." is the help text and
// default:"..." the default, parsed as the field's type. Supported
// types are string, bool, int and []string; a []string default is
// comma separated. Embedded structs such as [VerboseOutput] contribute
// their own tagged fields.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(value.Elem(), flagSet)
}

// flagSpec is the parsed form of a field's struct tags.
type flagSpec struct {
	name         string
	shorthand    string
	usage        string
	defaultValue string
}

func parseFlagSpec(field reflect.StructField) (flagSpec, bool) {
	tag, ok := field.Tag.Lookup("flag")
	if !ok || tag == "" {
		return flagSpec{}, false
	}
	name, shorthand, _ := strings.Cut(tag, ",")
	return flagSpec{
		name:         name,
		shorthand:    shorthand,
		usage:        field.Tag.Get("desc"),
		defaultValue: field.Tag.Get("default"),
	}, true
}

func bindStruct(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()
	for i := range structType.NumField() {
		field := structType.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStruct(structValue.Field(i), flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}
		spec, ok := parseFlagSpec(field)
		if !ok {
			continue
		}
		if err := spec.bind(structValue.Field(i).Addr().Interface(), flagSet); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func (s flagSpec) bind(target any, flagSet *pflag.FlagSet) error {
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, s.name, s.shorthand, s.defaultValue, s.usage)
	case *bool:
		value := false
		if s.defaultValue != "" {
			parsed, err := strconv.ParseBool(s.defaultValue)
			if err != nil {
				return fmt.Errorf("default for --%s: %w", s.name, err)
			}
			value = parsed
		}
		flagSet.BoolVarP(target, s.name, s.shorthand, value, s.usage)
	case *int:
		value := 0
		if s.defaultValue != "" {
			parsed, err := strconv.Atoi(s.defaultValue)
			if err != nil {
				return fmt.Errorf("default for --%s: %w", s.name, err)
			}
			value = parsed
		}
		flagSet.IntVarP(target, s.name, s.shorthand, value, s.usage)
	case *[]string:
		var value []string
		if s.defaultValue != "" {
			value = strings.Split(s.defaultValue, ",")
		}
		flagSet.StringSliceVarP(target, s.name, s.shorthand, value, s.usage)
	default:
		return fmt.Errorf("unsupported type %s for flag --%s", reflect.TypeOf(target).Elem(), s.name)
	}
	return nil
}
