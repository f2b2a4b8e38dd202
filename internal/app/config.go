package app

import (
	"strings"
	"time"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/envutil"
)

type Config struct {
	ServiceName        string
	Addr               string
	JWTSecretKey       string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	AllowedOrigins     []string
	StrategyTuningPath string
	TracingEnabled     bool
}

func LoadConfig() Config {
	origins := strings.Split(envutil.Str("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return Config{
		ServiceName:        envutil.Str("SERVICE_NAME", "lifeos-backend"),
		Addr:               ":" + envutil.Str("PORT", "8080"),
		JWTSecretKey:       envutil.Str("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:     time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL:    time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,
		AllowedOrigins:     origins,
		StrategyTuningPath: envutil.Str("STRATEGY_TUNING_FILE", ""),
		TracingEnabled:     envutil.Bool("TRACING_ENABLED", false),
	}
}
