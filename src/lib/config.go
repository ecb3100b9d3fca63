package lib

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	MongoURI        string
	MongoDB         string
	StoreDriver     string
	StoreTimeout    time.Duration
	JWTSecret       string
	JWTTTL          time.Duration
	BcryptCost      int
	CORSOrigins     string
	LogMode         string
	ShutdownTimeout time.Duration
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig(files ...string) Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load(files...)

	return Config{
		Port:            getEnv("PORT", "5000"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:         getEnv("MONGO_DB", "dissuade"),
		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		StoreTimeout:    getDuration("STORE_TIMEOUT", 5*time.Second),
		JWTSecret:       getEnv("JWT_SECRET", "fallback-secret-key"),
		JWTTTL:          getDuration("JWT_TTL", time.Hour),
		BcryptCost:      getInt("BCRYPT_COST", 11),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		LogMode:         getEnv("LOG_MODE", "development"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	i, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return i
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
