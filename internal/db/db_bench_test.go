package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/chris/histdb/pkg/models"
)

// benchSizes are the history sizes searched by the benchmarks
var benchSizes = []int{1000, 10000, 50000}

var benchCommands = []string{
	"git status", "git commit -m wip", "go test ./...", "ls -la", "cd ..",
	"docker compose up -d", "kubectl get pods", "vim main.go", "make build", "curl localhost:8080",
}

func openBenchDB(b *testing.B, size int) *DB {
	b.Helper()
	database, err := NewForTesting(filepath.Join(b.TempDir(), "history.db"))
	if err != nil {
		b.Fatalf("failed to create database: %v", err)
	}
	b.Cleanup(func() { database.Close() })

	batch := make([]*models.History, size)
	for i := range batch {
		cmd := fmt.Sprintf("%s %d", benchCommands[i%len(benchCommands)], i%500)
		h := models.NewHistory(cmd, "/home/user/projects/histdb", fmt.Sprintf("session-%d", i%7), "laptop:user", epoch.Add(time.Duration(i)*time.Second))
		h.Duration = int64(i)
		h.Exit = int64(i % 3)
		batch[i] = h
	}
	if err := database.SaveBulk(context.Background(), batch); err != nil {
		b.Fatalf("failed to seed database: %v", err)
	}
	return database
}

// BenchmarkSearch measures each search mode with and without a session filter
func BenchmarkSearch(b *testing.B) {
	ctx := context.Background()
	shell := models.Context{Session: "session-3", Cwd: "/home/user/projects/histdb", Hostname: "laptop:user"}

	for _, size := range benchSizes {
		database := openBenchDB(b, size)
		for _, mode := range []models.SearchMode{models.SearchPrefix, models.SearchFullText, models.SearchFuzzy} {
			for _, filter := range []models.FilterMode{models.FilterGlobal, models.FilterSession} {
				b.Run(fmt.Sprintf("%d/%s/%s", size, mode, filter), func(b *testing.B) {
					for i := 0; i < b.N; i++ {
						if _, err := database.Search(ctx, mode, filter, shell, "git", models.OptFilters{}); err != nil {
							b.Fatalf("failed to search: %v", err)
						}
					}
				})
			}
		}
	}
}

// BenchmarkListUnique measures the dedup window over the whole history
func BenchmarkListUnique(b *testing.B) {
	ctx := context.Background()
	for _, size := range benchSizes {
		database := openBenchDB(b, size)
		b.Run(fmt.Sprint(size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := database.List(ctx, nil, models.Context{}, 100, true, false); err != nil {
					b.Fatalf("failed to list: %v", err)
				}
			}
		})
	}
}
