// Package logger provee un logger Zap singleton con scoping por contexto.
//
// Diseño:
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context scoping: cada request lleva un logger "scoped" con campos
//     propios (request_id, etc.) sin crear un core nuevo.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Levels: debug, info, warn, error (via LOG_LEVEL).
//
// Inicialización (una vez, en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   os.Getenv("APP_ENV"),
//	    Level: os.Getenv("LOG_LEVEL"),
//	})
//	defer logger.Sync()
//
// En handlers/servicios:
//
//	log := logger.From(ctx)
//	log.Info("conversion done", logger.Format(out))
package logger
