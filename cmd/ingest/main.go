package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"maumjari-counsel-be/internal/bootstrap"
	"maumjari-counsel-be/internal/config"
	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/pkg/database"

	"github.com/fatih/color"
)

// ingest embeds every .txt and .md file under a directory into the knowledge base.
func main() {
	dir := flag.String("dir", "data/knowledge", "directory of .txt/.md documents")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

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

	color.Cyan("Ingesting documents from %s\n", *dir)

	var files, chunks, failed int
	err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if d.IsDir() || (ext != ".txt" && ext != ".md") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			color.Red("  %s: %v", path, err)
			failed++
			return nil
		}
		source, _ := filepath.Rel(*dir, path)
		if strings.TrimSpace(string(content)) == "" {
			color.Yellow("  %s: empty, skipped", source)
			return nil
		}

		res, err := container.KnowledgeService.Ingest(context.Background(), &dto.IngestDocumentRequest{
			Source:  filepath.ToSlash(source),
			Content: string(content),
		})
		if err != nil {
			color.Red("  %s: %v", source, err)
			failed++
			return nil
		}
		color.Green("  %s: %d chunks", res.Source, res.Chunks)
		files++
		chunks += res.Chunks
		return nil
	})
	if err != nil {
		log.Fatalf("Error: walk %s: %v", *dir, err)
	}

	color.Cyan("\nDone: %d files, %d chunks, %d failed", files, chunks, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
