package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	av "capm.service/api/alphavantage"
	c "capm.service/core"
	r "capm.service/repos"
)

const defaultMarketSymbol = "SPY"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load in environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	avClient := av.GetClient(os.Getenv("ALPHAVANTAGE_API_KEY"))

	postgresConnection, err := r.GetPostgresConnection(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer postgresConnection.Close()

	marketSymbol := os.Getenv("MARKET_INDEX_SYMBOL")
	if marketSymbol == "" {
		marketSymbol = defaultMarketSymbol
	}

	sc := c.ServiceContext{
		Context:            ctx,
		Log:                log,
		PostgresConnection: postgresConnection,
		AlphaVantageClient: avClient,
		MarketSymbol:       marketSymbol,
	}

	// get http server, makes all of the endpoints and routes
	s := c.GetHttpServer(sc)

	go func() {
		log.Info().Str("addr", s.Addr).Str("market", marketSymbol).Msg("starting CAPM analysis server")
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// wait here until the context is closed (ie, ctrl+C)
	<-ctx.Done()
	log.Info().Msg("received shutdown signal, shutting down gracefully")

	// this gives the server 10 seconds to shutdown gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
