package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/saeidalz13/armada/api"
	"github.com/saeidalz13/armada/db"
	"github.com/saeidalz13/armada/db/sqlc"
	"github.com/saeidalz13/armada/internal/config"
	"github.com/saeidalz13/armada/internal/ranking"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	options := []api.Option{
		api.WithPort(cfg.Port),
		api.WithStage(cfg.Stage),
		api.WithMatchConfig(matchConfig(cfg)),
	}

	// analytics need postgres whatever backend keeps the ranking
	if cfg.DatabaseUrl != "" {
		psql := db.MustConnectToDb(cfg.DatabaseUrl)
		defer psql.Close()

		querier := sqlc.New(psql)
		options = append(options, api.WithQuerier(querier))
		if cfg.RankingBackend == config.RankingBackendPostgres {
			options = append(options, api.WithRankingStore(ranking.NewPostgresStore(querier)))
		}
	}

	switch cfg.RankingBackend {
	case config.RankingBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalln("failed to reach redis:", err)
		}
		options = append(options, api.WithRankingStore(ranking.NewRedisStore(client, ranking.DefaultRedisKey)))

	case config.RankingBackendFile:
		options = append(options, api.WithRankingStore(ranking.NewFileStore(cfg.RankingFile)))
	}

	server := api.NewServer(options...)
	if err := server.ListenAndServe(ctx); err != nil {
		log.Fatalln(err)
	}
}

func matchConfig(cfg *config.Config) api.MatchConfig {
	mc := api.DefaultMatchConfig()
	mc.MinPlayers = cfg.MinPlayers
	mc.TurnTimeout = cfg.TurnTimeout
	mc.VoteTimeout = cfg.TurnTimeout
	mc.WaitPeriod = cfg.WaitPeriod
	mc.SurpriseRound = cfg.SurpriseRound
	return mc
}
