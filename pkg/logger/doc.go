// Package logger builds log/slog loggers with functional options and injects
// request-scoped attributes taken from context.Context.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "cookiejar"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "cookie rejected", logger.Cookie("user_id"))
//
// Attribute helpers keep key names consistent; cookie values are never logged.
package logger
