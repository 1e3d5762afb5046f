package parser

import (
	"encoding/json"
	"math"
	"strings"
)

// Field names a logical attribute of a usage record.
type Field string

// Logical fields resolved by Normalize.
const (
	FieldTimestamp     Field = "timestamp"
	FieldInput         Field = "input"
	FieldOutput        Field = "output"
	FieldCacheCreation Field = "cache_creation"
	FieldCacheRead     Field = "cache_read"
	FieldCost          Field = "cost"
	FieldModel         Field = "model"
	FieldSession       Field = "session"
)

// FieldAccessors lists, per field, the dotted paths tried in order.
//
// Flat names come first so ccusage-style exports win over the nested
// Claude Code message shape when both are present.
var FieldAccessors = map[Field][]string{
	FieldTimestamp:     {"timestamp", "createdAt"},
	FieldInput:         {"inputTokens", "input_tokens", "message.usage.input_tokens"},
	FieldOutput:        {"outputTokens", "output_tokens", "message.usage.output_tokens"},
	FieldCacheCreation: {"cacheCreationTokens", "cache_creation_tokens", "message.usage.cache_creation_input_tokens"},
	FieldCacheRead:     {"cacheReadTokens", "cache_read_tokens", "message.usage.cache_read_input_tokens"},
	FieldCost:          {"costUSD", "cost"},
	FieldModel:         {"modelName", "model", "message.model"},
	FieldSession:       {"sessionId", "session_id"},
}

// lookup follows a dotted path through nested objects.
func lookup(raw map[string]any, path string) (any, bool) {
	cur := raw
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := cur[part]
		if !ok || v == nil {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// stringField returns the first non-empty string among the field's accessors.
func stringField(raw map[string]any, f Field) string {
	for _, path := range FieldAccessors[f] {
		v, ok := lookup(raw, path)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// tokenLimit is 2^63, the first float64 an int64 cannot hold.
const tokenLimit = float64(1 << 63)

// numberField returns the first positive finite number among the field's
// accessors, or 0. Zero, negative and non-numeric values fall through.
func numberField(raw map[string]any, f Field) float64 {
	return positiveField(raw, f, math.Inf(1))
}

// positiveField is numberField with values at or above limit falling
// through as well.
func positiveField(raw map[string]any, f Field, limit float64) float64 {
	for _, path := range FieldAccessors[f] {
		v, ok := lookup(raw, path)
		if !ok {
			continue
		}
		if n, ok := toFloat(v); ok && n > 0 && n < limit {
			return n
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// tokenField is numberField for counts that must fit an int64.
func tokenField(raw map[string]any, f Field) int64 {
	return int64(positiveField(raw, f, tokenLimit))
}
