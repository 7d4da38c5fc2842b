// AngelaMos | 2026
// defaults.go

package config

func defaults() map[string]any {
	return map[string]any{
		"app.name":        "Bookstore API",
		"app.version":     "1.0.0",
		"app.environment": envDevelopment,

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",
		"server.max_body_bytes":   1 << 20,

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.query_timeout":      "5s",
		"database.auto_migrate":       false,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.access_token_expire":  "30m",
		"jwt.refresh_token_expire": "168h",
		"jwt.issuer":               "bookstore-api",
		"jwt.audience":             "bookstore-clients",

		"pagination.default_page_size": 10,
		"pagination.max_page_size":     100,

		"rating.duplicate_policy": DuplicateRatingReject,

		"rate_limit.requests": 60,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins":   []string{"http://localhost:3000"},
		"cors.allowed_methods":   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		"cors.allowed_headers":   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "bookstore-api",
	}
}

// envKeys maps the supported environment variables onto config paths.
// Anything not listed is ignored.
var envKeys = map[string]string{
	"ENVIRONMENT": "app.environment",
	"APP_VERSION": "app.version",

	"HOST":           "server.host",
	"PORT":           "server.port",
	"MAX_BODY_BYTES": "server.max_body_bytes",

	"DATABASE_URL":     "database.url",
	"DB_QUERY_TIMEOUT": "database.query_timeout",
	"DB_AUTO_MIGRATE":  "database.auto_migrate",
	"REDIS_URL":        "redis.url",

	"JWT_SECRET":               "jwt.secret",
	"JWT_ACCESS_TOKEN_EXPIRE":  "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE": "jwt.refresh_token_expire",
	"JWT_ISSUER":               "jwt.issuer",
	"JWT_AUDIENCE":             "jwt.audience",

	"PAGINATION_DEFAULT_SIZE":  "pagination.default_page_size",
	"PAGINATION_MAX_PAGE_SIZE": "pagination.max_page_size",
	"RATING_DUPLICATE_POLICY":  "rating.duplicate_policy",

	"RATE_LIMIT_REQUESTS": "rate_limit.requests",
	"RATE_LIMIT_WINDOW":   "rate_limit.window",
	"RATE_LIMIT_BURST":    "rate_limit.burst",

	"LOG_LEVEL":  "log.level",
	"LOG_FORMAT": "log.format",

	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKey(name string) string {
	return envKeys[name]
}
