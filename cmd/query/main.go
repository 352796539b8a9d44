package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"maumjari-counsel-be/internal/bootstrap"
	"maumjari-counsel-be/internal/config"
	"maumjari-counsel-be/internal/service"
	"maumjari-counsel-be/pkg/database"

	"github.com/fatih/color"
)

// query answers a question from the knowledge base and lists the passages used.
func main() {
	topK := flag.Int("top_k", service.DefaultQueryTopK, "number of passages to retrieve")
	flag.Parse()

	question := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if question == "" {
		log.Fatal("usage: query [-top_k N] <question>")
	}

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	cfg.Ai.RAGEnabled = true

	db, err := database.Open(database.Options{
		DSN:          cfg.Database.Connection,
		LogQueries:   cfg.Database.LogQueries,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()

	answer, err := container.KnowledgeService.Ask(context.Background(), question, *topK)
	if err != nil {
		color.Red("Query failed: %v", err)
		return
	}

	color.Cyan("=== 응답 ===")
	fmt.Println(answer.Answer)
	color.Cyan("\n=== 출처 ===")
	for _, doc := range answer.Sources {
		fmt.Printf("- %s (p.%d), score=%.3f\n", doc.Source, doc.Page, doc.Score)
	}
}
