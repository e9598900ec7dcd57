package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"termibbl/config"
	"termibbl/game"
	"termibbl/logger"
	"termibbl/migrations"
	"termibbl/storage"
	"termibbl/words"
)

// CreateServer builds the router with the middleware every route shares.
// An empty allowedOrigins accepts any origin; requests without an Origin
// header (terminal clients) are always accepted.
func CreateServer(allowedOrigins []string, reqLogger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.Use(logger.Gin(reqLogger), gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	if len(allowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "OPTIONS"},
		}))
		return r
	}

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func loadWords(ctx context.Context, cfg config.Config) ([]string, error) {
	var sources []words.Source
	if cfg.WordsFile != "" {
		sources = append(sources, words.FileSource{Path: cfg.WordsFile})
	}
	if cfg.WordsPostgres != "" {
		if err := migrations.Migrate(cfg.WordsPostgres); err != nil {
			return nil, err
		}
		repo, err := storage.NewPostgresRepo(ctx, cfg.WordsPostgres)
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		sources = append(sources, repo)
	}
	if cfg.WordsRedis != "" {
		src, err := words.NewRedisSource(cfg.WordsRedis, cfg.WordsRedisKey)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		sources = append(sources, src)
	}
	return words.Collect(ctx, sources...)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	appLogger, err := logger.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid log level")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	loadCtx, cancelLoad := context.WithTimeout(ctx, 30*time.Second)
	wordList, err := loadWords(loadCtx, cfg)
	cancelLoad()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load words")
	}
	if len(wordList) == 0 {
		appLogger.Info().Msg("no word list configured, skribbl mode disabled")
	}

	tickerGen := game.NewTickerGen()
	room := game.NewRoom(game.RoomConfig{
		Dimensions:    game.Dimensions{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight},
		Words:         wordList,
		RoundDuration: cfg.RoundDuration,
	}, game.NewRandomWordPicker(), tickerGen, appLogger)
	gameHandler := game.NewGameHandler(room, tickerGen, appLogger)

	r := CreateServer(cfg.AllowedOrigins, appLogger)
	r.GET("/room", gameHandler.RoomSummaryHandler)
	r.GET("/ws", gameHandler.JoinRoomHandler)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return room.Run(gctx)
	})
	g.Go(func() error {
		appLogger.Info().Str("addr", cfg.ListenAddr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Fatal().Err(err).Msg("server stopped with error")
	}
	appLogger.Info().Msg("bye")
}
