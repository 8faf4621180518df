package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"paperinsight/internal/api"
	"paperinsight/internal/config"
	"paperinsight/internal/insight"
	"paperinsight/internal/providers"
	"paperinsight/internal/storage"
	"paperinsight/internal/vector"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Migrate(ctx, cfg.EmbedDim); err != nil {
		log.Fatal(err)
	}

	pm, err := providers.NewManager(cfg)
	if err != nil {
		log.Fatal(err)
	}
	tc, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer tc.Close()

	papers := storage.NewPaperRepo(db)
	retriever := insight.NewRetriever(pm.Embedder(), vector.NewSearcher(db.Pool), cfg.EmbedDim, cfg.RetrievalTopK)
	svc := insight.NewService(papers, retriever, pm.LLM())
	starter := api.NewTemporalStarter(tc, cfg.TemporalTaskQueue)
	srv := api.NewServer(cfg, papers, svc, starter)

	log.Printf("paperinsight api listening on %s llm_providers=%q embed_providers=%q", cfg.APIAddr, cfg.LLMProviders, cfg.EmbedProviders)
	if err := http.ListenAndServe(cfg.APIAddr, srv.Routes()); err != nil {
		log.Fatal(err)
	}
}
