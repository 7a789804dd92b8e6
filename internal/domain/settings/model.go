package settings

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// Settings groups panel preferences by category.
type Settings map[string]map[string]any

// Defaults returns a fresh copy of the default settings.
func Defaults() Settings {
	return Settings{
		"general": {
			"panel_title": "Hastane Yönetim Paneli",
			"date_format": "DD.MM.YYYY",
			"time_format": "24",
			"language":    "tr",
		},
		"notifications": {
			"email_enabled":         true,
			"new_appointment":       true,
			"new_review":            true,
			"appointment_reminder":  true,
			"reminder_hours_before": 24,
		},
		"data_management": {
			"backup_enabled":   true,
			"auto_backup_days": 7,
		},
		"security": {
			"session_timeout_minutes": 30,
		},
		"appearance": {
			"theme":                  "default",
			"show_dashboard_widgets": true,
			"records_per_page":       20,
		},
	}
}

// Categories lists the known category names in order.
func Categories() []string {
	out := make([]string, 0, len(Defaults()))
	for k := range Defaults() {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// withDefaults fills keys missing from stored settings. Unknown keys are
// dropped.
func withDefaults(stored Settings) Settings {
	out := Defaults()
	for cat, values := range stored {
		defs, ok := out[cat]
		if !ok {
			continue
		}
		for k, v := range values {
			if def, ok := defs[k]; ok {
				if norm, ok := coerce(def, v); ok {
					defs[k] = norm
				}
			}
		}
	}
	return out
}

// validateUpdate checks every key exists in the category and keeps the type
// of its default. Numbers must be non-negative integers.
func validateUpdate(category string, updates map[string]any) (map[string]any, error) {
	defs, ok := Defaults()[category]
	if !ok {
		return nil, apperr.Invalid("category", "unknown settings category %q", category)
	}
	if len(updates) == 0 {
		return nil, apperr.Invalid(category, "no settings given")
	}
	out := make(map[string]any, len(updates))
	for k, v := range updates {
		def, ok := defs[k]
		if !ok {
			return nil, apperr.Invalid(category, "unknown setting %q", k)
		}
		norm, ok := coerce(def, v)
		if !ok {
			return nil, apperr.Invalid(category, "invalid value for %q", k)
		}
		out[k] = norm
	}
	return out, nil
}

func coerce(def, v any) (any, bool) {
	switch def.(type) {
	case bool:
		b, ok := v.(bool)
		return b, ok
	case string:
		s, ok := v.(string)
		return s, ok
	case int:
		var f float64
		switch n := v.(type) {
		case int:
			f = float64(n)
		case float64:
			f = n
		case json.Number:
			var err error
			if f, err = n.Float64(); err != nil {
				return nil, false
			}
		default:
			return nil, false
		}
		if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
			return nil, false
		}
		return int(f), true
	}
	return nil, false
}
