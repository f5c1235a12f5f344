// Package model - Loosely-typed requirements map
package model

import "github.com/shopspring/decimal"

// Requirements is the loosely-typed configuration handed to the recommender
// and optimizer. Unrecognized keys are ignored; missing keys take the
// defaults documented on each accessor.
type Requirements map[string]interface{}

// GetString retrieves a string value, or def when absent.
func (r Requirements) GetString(key, def string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetInt64 retrieves an integer value, or def when absent.
func (r Requirements) GetInt64(key string, def int64) int64 {
	if v, ok := r[key]; ok {
		switch n := v.(type) {
		case int:
			return int64(n)
		case int64:
			return n
		case float64:
			return int64(n)
		}
	}
	return def
}

// GetDecimal retrieves a decimal value. The second return reports presence.
func (r Requirements) GetDecimal(key string) (decimal.Decimal, bool) {
	if v, ok := r[key]; ok {
		switch n := v.(type) {
		case decimal.Decimal:
			return n, true
		case string:
			d, err := decimal.NewFromString(n)
			if err == nil {
				return d, true
			}
		case float64:
			return decimal.NewFromFloat(n), true
		case int:
			return decimal.NewFromInt(int64(n)), true
		case int64:
			return decimal.NewFromInt(n), true
		}
	}
	return decimal.Zero, false
}

// GetProviders retrieves a provider list, or def when absent.
func (r Requirements) GetProviders(key string, def []Provider) []Provider {
	v, ok := r[key]
	if !ok {
		return def
	}
	switch list := v.(type) {
	case []Provider:
		return list
	case []string:
		out := make([]Provider, len(list))
		for i, s := range list {
			out[i] = Provider(s)
		}
		return out
	}
	return def
}

// GetRegions retrieves a region list; absent means no region filter.
func (r Requirements) GetRegions(key string) []Region {
	v, ok := r[key]
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []Region:
		return list
	case []string:
		out := make([]Region, len(list))
		for i, s := range list {
			out[i] = Region(s)
		}
		return out
	}
	return nil
}
