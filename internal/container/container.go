package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/edustream/auth-service/config"
	"github.com/edustream/auth-service/internal/infrastructure/redisstore"
	"github.com/edustream/auth-service/pkg/helpers"
)

// App-level container to share constructed components across packages;
// the router auto-wires modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	hasher     *helpers.PasswordHasher
	blacklist  *redisstore.Blacklist
)

func SetConfig(c *config.Config)           { cfg = c }
func GetConfig() *config.Config            { return cfg }
func SetLogger(l *logrus.Logger)           { logger = l }
func GetLogger() *logrus.Logger            { return logger }
func SetPGPool(p *pgxpool.Pool)            { pgPool = p }
func GetPGPool() *pgxpool.Pool             { return pgPool }
func SetRedis(r *redis.Client)             { redisClient = r }
func GetRedis() *redis.Client              { return redisClient }
func SetJWT(m *helpers.JWTManager)         { jwtManager = m }
func GetJWT() *helpers.JWTManager          { return jwtManager }
func SetHasher(h *helpers.PasswordHasher)  { hasher = h }
func GetHasher() *helpers.PasswordHasher   { return hasher }
func SetBlacklist(b *redisstore.Blacklist) { blacklist = b }
func GetBlacklist() *redisstore.Blacklist  { return blacklist }
