package expr

import (
	"fmt"
	"strings"

	"github.com/lvillar/doclayout"
)

// builtinFuncs is the allow-listed set of global functions. Anything not in
// this table is an evaluation error; there is no fallback to host code.
var builtinFuncs = map[string]func(args []doclayout.Value) (doclayout.Value, error){
	"Round":         fnRound,
	"Abs":           fnAbs,
	"Min":           fnMin,
	"Max":           fnMax,
	"IsNullOrEmpty": fnIsNullOrEmpty,
	"Currency":      fnCurrency,
}

// valueMethods is the allow-listed set of methods callable with postfix
// syntax, e.g. {{ name.ToUpper() }}.
var valueMethods = map[string]func(recv doclayout.Value, args []doclayout.Value) (doclayout.Value, error){
	"ToUpper": stringMethod("ToUpper", 0, 0, func(s string, _ []doclayout.Value) (doclayout.Value, error) {
		return doclayout.StringValue(strings.ToUpper(s)), nil
	}),
	"ToLower": stringMethod("ToLower", 0, 0, func(s string, _ []doclayout.Value) (doclayout.Value, error) {
		return doclayout.StringValue(strings.ToLower(s)), nil
	}),
	"Trim": stringMethod("Trim", 0, 0, func(s string, _ []doclayout.Value) (doclayout.Value, error) {
		return doclayout.StringValue(strings.TrimSpace(s)), nil
	}),
	"Replace": stringMethod("Replace", 2, 2, func(s string, args []doclayout.Value) (doclayout.Value, error) {
		old, err := stringArg("Replace", args, 0)
		if err != nil {
			return doclayout.Value{}, err
		}
		new_, err := stringArg("Replace", args, 1)
		if err != nil {
			return doclayout.Value{}, err
		}
		return doclayout.StringValue(strings.ReplaceAll(s, old, new_)), nil
	}),
	"Substring": stringMethod("Substring", 1, 2, fnSubstring),
	"Contains": stringMethod("Contains", 1, 1, func(s string, args []doclayout.Value) (doclayout.Value, error) {
		sub, err := stringArg("Contains", args, 0)
		if err != nil {
			return doclayout.Value{}, err
		}
		return doclayout.BoolValue(strings.Contains(s, sub)), nil
	}),
	"StartsWith": stringMethod("StartsWith", 1, 1, func(s string, args []doclayout.Value) (doclayout.Value, error) {
		prefix, err := stringArg("StartsWith", args, 0)
		if err != nil {
			return doclayout.Value{}, err
		}
		return doclayout.BoolValue(strings.HasPrefix(s, prefix)), nil
	}),
	"EndsWith": stringMethod("EndsWith", 1, 1, func(s string, args []doclayout.Value) (doclayout.Value, error) {
		suffix, err := stringArg("EndsWith", args, 0)
		if err != nil {
			return doclayout.Value{}, err
		}
		return doclayout.BoolValue(strings.HasSuffix(s, suffix)), nil
	}),
	"ToString": func(recv doclayout.Value, args []doclayout.Value) (doclayout.Value, error) {
		if len(args) != 0 {
			return doclayout.Value{}, fmt.Errorf("ToString takes no arguments")
		}
		return doclayout.StringValue(recv.String()), nil
	},
}

func stringMethod(name string, minArgs, maxArgs int, fn func(s string, args []doclayout.Value) (doclayout.Value, error)) func(doclayout.Value, []doclayout.Value) (doclayout.Value, error) {
	return func(recv doclayout.Value, args []doclayout.Value) (doclayout.Value, error) {
		if recv.Type() != doclayout.StringType {
			return doclayout.Value{}, fmt.Errorf("%s requires a string receiver, got %s", name, recv.Type())
		}
		if len(args) < minArgs || len(args) > maxArgs {
			return doclayout.Value{}, fmt.Errorf("%s expects %d to %d arguments, got %d", name, minArgs, maxArgs, len(args))
		}
		return fn(recv.Text(), args)
	}
}

func stringArg(fn string, args []doclayout.Value, i int) (string, error) {
	if args[i].Type() != doclayout.StringType {
		return "", fmt.Errorf("%s: argument %d must be a string, got %s", fn, i+1, args[i].Type())
	}
	return args[i].Text(), nil
}

func numberArg(fn string, args []doclayout.Value, i int) (doclayout.Value, error) {
	if args[i].Type() != doclayout.NumberType {
		return doclayout.Value{}, fmt.Errorf("%s: argument %d must be a number, got %s", fn, i+1, args[i].Type())
	}
	return args[i], nil
}

func fnSubstring(s string, args []doclayout.Value) (doclayout.Value, error) {
	startV, err := numberArg("Substring", args, 0)
	if err != nil {
		return doclayout.Value{}, err
	}
	runes := []rune(s)
	start := int(startV.Number().IntPart())
	if start < 0 || start > len(runes) {
		return doclayout.Value{}, fmt.Errorf("Substring: start %d out of range (length %d)", start, len(runes))
	}
	end := len(runes)
	if len(args) == 2 {
		lengthV, err := numberArg("Substring", args, 1)
		if err != nil {
			return doclayout.Value{}, err
		}
		length := int(lengthV.Number().IntPart())
		if length < 0 || start+length > len(runes) {
			return doclayout.Value{}, fmt.Errorf("Substring: length %d out of range", length)
		}
		end = start + length
	}
	return doclayout.StringValue(string(runes[start:end])), nil
}

func fnRound(args []doclayout.Value) (doclayout.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return doclayout.Value{}, fmt.Errorf("Round expects 1 or 2 arguments, got %d", len(args))
	}
	x, err := numberArg("Round", args, 0)
	if err != nil {
		return doclayout.Value{}, err
	}
	places := int32(0)
	if len(args) == 2 {
		p, err := numberArg("Round", args, 1)
		if err != nil {
			return doclayout.Value{}, err
		}
		places = int32(p.Number().IntPart())
	}
	return doclayout.NumberValue(x.Number().Round(places)), nil
}

func fnAbs(args []doclayout.Value) (doclayout.Value, error) {
	if len(args) != 1 {
		return doclayout.Value{}, fmt.Errorf("Abs expects 1 argument, got %d", len(args))
	}
	x, err := numberArg("Abs", args, 0)
	if err != nil {
		return doclayout.Value{}, err
	}
	return doclayout.NumberValue(x.Number().Abs()), nil
}

func fnMin(args []doclayout.Value) (doclayout.Value, error) {
	return fnExtremum("Min", args, func(cmp int) bool { return cmp < 0 })
}

func fnMax(args []doclayout.Value) (doclayout.Value, error) {
	return fnExtremum("Max", args, func(cmp int) bool { return cmp > 0 })
}

func fnExtremum(name string, args []doclayout.Value, better func(cmp int) bool) (doclayout.Value, error) {
	if len(args) < 2 {
		return doclayout.Value{}, fmt.Errorf("%s expects at least 2 arguments, got %d", name, len(args))
	}
	best, err := numberArg(name, args, 0)
	if err != nil {
		return doclayout.Value{}, err
	}
	for i := 1; i < len(args); i++ {
		next, err := numberArg(name, args, i)
		if err != nil {
			return doclayout.Value{}, err
		}
		if better(next.Number().Cmp(best.Number())) {
			best = next
		}
	}
	return best, nil
}

func fnIsNullOrEmpty(args []doclayout.Value) (doclayout.Value, error) {
	if len(args) != 1 {
		return doclayout.Value{}, fmt.Errorf("IsNullOrEmpty expects 1 argument, got %d", len(args))
	}
	v := args[0]
	switch v.Type() {
	case doclayout.NullType:
		return doclayout.BoolValue(true), nil
	case doclayout.StringType:
		return doclayout.BoolValue(v.Text() == ""), nil
	case doclayout.ArrayType, doclayout.ObjectType:
		return doclayout.BoolValue(v.Len() == 0), nil
	}
	return doclayout.BoolValue(false), nil
}

// fnCurrency formats a number with two decimal places and a currency
// symbol, "$" unless the second argument overrides it.
func fnCurrency(args []doclayout.Value) (doclayout.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return doclayout.Value{}, fmt.Errorf("Currency expects 1 or 2 arguments, got %d", len(args))
	}
	x, err := numberArg("Currency", args, 0)
	if err != nil {
		return doclayout.Value{}, err
	}
	symbol := "$"
	if len(args) == 2 {
		symbol, err = stringArg("Currency", args, 1)
		if err != nil {
			return doclayout.Value{}, err
		}
	}
	return doclayout.StringValue(symbol + x.Number().StringFixed(2)), nil
}
