package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"art-gallery-paywall/internal/config"
	"art-gallery-paywall/internal/domain/model"
	pg "art-gallery-paywall/internal/infra/db/postgres"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	repo := pg.NewArtworkRepo(pool)

	// If artworks already exist, do nothing
	existing, err := repo.ListAll(ctx, nil)
	if err != nil {
		log.Fatalf("list artworks: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d artworks already present. No changes.\n", len(existing))
		for _, a := range existing {
			fmt.Printf("  - %s (price=%dp)\n", a.Title, a.PricePence)
		}
		return
	}

	// Sample gallery for testing the checkout flow
	seed := []struct {
		Title      string
		Image      string
		Blurred    string
		PricePence int64
	}{
		{"Morning at the Dock", "/images/dock.jpg", "/images/dock_blur.jpg", 500},
		{"Winter Birches", "/images/birches.jpg", "/images/birches_blur.jpg", 750},
		{"Harbour Lights", "/images/harbour.jpg", "/images/harbour_blur.jpg", 500},
		{"Still Life with Pears", "/images/pears.jpg", "/images/pears_blur.jpg", 1200},
		{"North Sea Study", "/images/northsea.jpg", "/images/northsea_blur.jpg", 900},
	}

	for _, s := range seed {
		art, err := model.NewArtwork(uuid.NewString(), s.Title, s.Image, s.Blurred, s.PricePence)
		if err != nil {
			log.Fatalf("build artwork %q: %v", s.Title, err)
		}
		if err := repo.Save(ctx, nil, art); err != nil {
			log.Fatalf("save artwork %q: %v", s.Title, err)
		}
		fmt.Printf("seeded: %s (id=%s, price=%dp)\n", art.Title, art.ID, art.PricePence)
	}

	fmt.Println("Seeding complete.")
}
