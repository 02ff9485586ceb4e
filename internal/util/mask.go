package util

// MaskKey acorta un secreto para logs: prefijo corto + "…".
// Nunca loguear una API key completa.
func MaskKey(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "…"
}
