package tool

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
)

// UnitConvTool converts a value between units of the same dimension.
type UnitConvTool struct{}

func (t *UnitConvTool) Name() string { return "unitconv" }

func (t *UnitConvTool) Describe() string {
	return "Convert a value between length, mass, temperature and data-size units"
}

type unitConvParams struct {
	Value float64 `json:"value"`
	From  string  `json:"from"`
	To    string  `json:"to"`
}

type unitConvResult struct {
	Value    float64 `json:"value"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Result   float64 `json:"result"`
	Category string  `json:"category"`
}

// linear unit tables map each unit to its factor relative to the
// category's base unit (meter, gram, byte, second).
var unitCategories = map[string]map[string]float64{
	"length": {
		"mm": 0.001, "cm": 0.01, "m": 1, "km": 1000,
		"in": 0.0254, "ft": 0.3048, "yd": 0.9144, "mi": 1609.344,
	},
	"mass": {
		"mg": 0.001, "g": 1, "kg": 1000, "t": 1e6,
		"oz": 28.349523125, "lb": 453.59237,
	},
	"data": {
		"b": 1, "kb": 1e3, "mb": 1e6, "gb": 1e9, "tb": 1e12,
		"kib": 1 << 10, "mib": 1 << 20, "gib": 1 << 30, "tib": 1 << 40,
	},
	"time": {
		"ms": 0.001, "s": 1, "min": 60, "h": 3600, "d": 86400,
	},
}

func findUnit(name string) (category string, factor float64, ok bool) {
	for cat, units := range unitCategories {
		if f, found := units[name]; found {
			return cat, f, true
		}
	}
	return "", 0, false
}

func convertTemperature(value float64, from, to string) (float64, bool) {
	var celsius float64
	switch from {
	case "c":
		celsius = value
	case "f":
		celsius = (value - 32) * 5 / 9
	case "k":
		celsius = value - 273.15
	default:
		return 0, false
	}
	switch to {
	case "c":
		return celsius, true
	case "f":
		return celsius*9/5 + 32, true
	case "k":
		return celsius + 273.15, true
	default:
		return 0, false
	}
}

func isTemperatureUnit(name string) bool {
	return name == "c" || name == "f" || name == "k"
}

func (t *UnitConvTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p unitConvParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if p.From == "" || p.To == "" {
		return nil, badParams("from and to units are required")
	}

	if isTemperatureUnit(p.From) || isTemperatureUnit(p.To) {
		result, ok := convertTemperature(p.Value, p.From, p.To)
		if !ok {
			return nil, badParams("cannot convert between %s and %s", p.From, p.To)
		}
		return &unitConvResult{
			Value: p.Value, From: p.From, To: p.To,
			Result: result, Category: "temperature",
		}, nil
	}

	fromCat, fromFactor, ok := findUnit(p.From)
	if !ok {
		return nil, badParams("unknown unit %q (supported: %s)", p.From, strings.Join(SupportedUnits(), ", "))
	}
	toCat, toFactor, ok := findUnit(p.To)
	if !ok {
		return nil, badParams("unknown unit %q (supported: %s)", p.To, strings.Join(SupportedUnits(), ", "))
	}
	if fromCat != toCat {
		return nil, badParams("cannot convert %s (%s) to %s (%s)", p.From, fromCat, p.To, toCat)
	}

	return &unitConvResult{
		Value: p.Value, From: p.From, To: p.To,
		Result:   p.Value * fromFactor / toFactor,
		Category: fromCat,
	}, nil
}

// SupportedUnits lists every known unit name, sorted, for diagnostics.
func SupportedUnits() []string {
	var names []string
	for _, units := range unitCategories {
		for name := range units {
			names = append(names, name)
		}
	}
	names = append(names, "c", "f", "k")
	sort.Strings(names)
	return names
}
