package main

import (
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"cartapp/internal/config"
	"cartapp/internal/domain/model"
	"cartapp/internal/handler"
	"cartapp/internal/infra/cache"
	"cartapp/internal/infra/db"
	infraRepo "cartapp/internal/infra/repository"
	"cartapp/internal/infra/session"
	"cartapp/internal/logging"
	"cartapp/internal/server"
	"cartapp/internal/usecase"
)

func main() {
	//.envは無くてもよい（本番は環境変数直）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
	); err != nil {
		panic(err)
	}

	//Redis（キャッシュ/ゲストセッション兼用）
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	//Repository（GORM実装）生成
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	cartCache := cache.NewRedisCartCache(redisClient, cfg.CacheKeyPrefix, cfg.CacheTTL)
	sessionStore := session.NewRedisSessionStore(redisClient, cfg.SessionKeyPrefix, cfg.SessionTTL)
	guestCart := usecase.NewGuestCart(sessionStore, cfg.MaxQuantity)

	//Usecase生成
	cartUC := usecase.NewCartUsecase(
		txManager,
		productRepo,
		cartRepo,
		cartRepo,
		cartCache,
		guestCart,
		cfg.MaxQuantity,
		logger,
	)

	//Handler生成
	cartH := handler.NewCartHandler(cartUC)

	//Server起動
	addr := cfg.Port
	if addr == "" || addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info().Str("addr", addr).Msg("starting cart api")
	if err := server.Start(addr, cfg, cartH); err != nil {
		panic(err)
	}
}
