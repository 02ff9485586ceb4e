package middlewares

import "context"

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxIsMasterKey  ctxKey = "is_master"
)

// setRequestID inyecta el request ID en el contexto (interno).
func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, rid)
}

// GetRequestID obtiene el request ID del contexto; "" si no hay.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}

// setIsMaster marca en el contexto que la credencial validada es la master.
func setIsMaster(ctx context.Context, isMaster bool) context.Context {
	return context.WithValue(ctx, ctxIsMasterKey, isMaster)
}

// IsMaster indica si el request fue autorizado con la master key.
func IsMaster(ctx context.Context) bool {
	v, ok := ctx.Value(ctxIsMasterKey).(bool)
	return ok && v
}
