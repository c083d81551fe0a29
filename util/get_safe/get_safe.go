package getsafe

import "time"

func String(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func Int(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func Float64(payload map[string]any, key string) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func Float32s(payload map[string]any, key string) []float32 {
	switch v := payload[key].(type) {
	case []float32:
		return v
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out
	case []any:
		out := make([]float32, 0, len(v))
		for _, elem := range v {
			switch n := elem.(type) {
			case float64:
				out = append(out, float32(n))
			case float32:
				out = append(out, n)
			case int64:
				out = append(out, float32(n))
			default:
				return nil
			}
		}
		return out
	}
	return nil
}

func Time(payload map[string]any, key string) time.Time {
	if v, ok := payload[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
