package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// sensitiveHeaderFields are header/field names whose values must never be logged
var sensitiveHeaderFields = []string{
	"authorization", "api_key", "apikey", "api-key",
	"secret", "password", "token", "credential",
}

// SanitizeHeaders masks sensitive headers (like Authorization) for logging
func SanitizeHeaders(headers map[string][]string) map[string][]string {
	if headers == nil {
		return nil
	}

	sanitized := make(map[string][]string, len(headers))
	for key, values := range headers {
		if isSensitiveField(key) {
			sanitized[key] = []string{"***MASKED***"}
		} else {
			sanitized[key] = values
		}
	}
	return sanitized
}

func isSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveHeaderFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// base64Payload matches long base64 runs inside JSON string values. Inline
// image payloads routinely run to hundreds of kilobytes; logging them whole
// makes log lines unusable.
var base64Payload = regexp.MustCompile(`"([A-Za-z0-9+/]{100,}={0,2})"`)

// dataURLPayload matches the payload portion of an embedded data URL
var dataURLPayload = regexp.MustCompile(`(?i)(data:[^;]+;base64,)([A-Za-z0-9+/]{100,}={0,2})`)

// TruncateBase64InData walks an arbitrary data structure and truncates long
// base64 strings so logged request/response payloads stay readable.
func TruncateBase64InData(data interface{}) interface{} {
	return truncateBase64Value(reflect.ValueOf(data)).Interface()
}

func truncateBase64Value(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.String:
		return reflect.ValueOf(TruncateBase64String(v.String()))

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		newMap := reflect.MakeMap(v.Type())
		for _, key := range v.MapKeys() {
			newMap.SetMapIndex(key, truncateBase64Value(v.MapIndex(key)))
		}
		return newMap

	case reflect.Slice, reflect.Array:
		newSlice := reflect.MakeSlice(reflect.SliceOf(v.Type().Elem()), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			newSlice.Index(i).Set(truncateBase64Value(v.Index(i)))
		}
		return newSlice

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		return reflect.ValueOf(TruncateBase64InData(v.Interface()))

	case reflect.Ptr:
		if v.IsNil() {
			return v
		}
		elem := truncateBase64Value(v.Elem())
		newPtr := reflect.New(elem.Type())
		newPtr.Elem().Set(elem)
		return newPtr

	default:
		return v
	}
}

// TruncateBase64String truncates base64 payloads in a single string, handling
// both embedded data URLs and plain base64 values in JSON content.
func TruncateBase64String(s string) string {
	s = dataURLPayload.ReplaceAllStringFunc(s, func(match string) string {
		sub := dataURLPayload.FindStringSubmatch(match)
		if len(sub) != 3 {
			return match
		}
		return sub[1] + truncatePayload(sub[2])
	})

	return base64Payload.ReplaceAllStringFunc(s, func(match string) string {
		payload := match[1 : len(match)-1]
		return `"` + truncatePayload(payload) + `"`
	})
}

func truncatePayload(payload string) string {
	if len(payload) <= 100 {
		return payload
	}
	return payload[:50] + fmt.Sprintf("...[%d chars truncated]...", len(payload)-100) + payload[len(payload)-50:]
}
