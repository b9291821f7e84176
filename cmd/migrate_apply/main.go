package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	var (
		apply = flag.Bool("apply", false, "execute the migrations instead of listing them")
		dir   = flag.String("dir", filepath.Join("internal", "migrations"), "directory holding *.sql migrations")
		dsn   = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	)
	flag.Parse()

	names, err := migrationNames(*dir)
	if err != nil {
		log.Fatal(err)
	}

	if !*apply {
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	if *dsn == "" {
		log.Fatal("no connection string: set DATABASE_URL or pass -dsn")
	}
	db, err := pgxpool.New(context.Background(), *dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			log.Fatalf("read %s: %v", name, err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			log.Fatalf("apply %s: %v", name, err)
		}
		fmt.Printf("applied %s\n", name)
	}
}

// migrationNames lists the .sql files in dir in lexical (and therefore
// numeric-prefix) order.
func migrationNames(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		names = append(names, f.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .sql migrations in %s", dir)
	}
	return names, nil
}
