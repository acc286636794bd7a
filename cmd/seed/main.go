// Package main implements a standalone seed script that populates the
// reviews database with a configurable number of products, each with
// characteristics and a spread of reviews, photos, and characteristic
// ratings.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultProducts = 1000

var characteristicNames = []string{"Fit", "Length", "Comfort", "Quality"}

var summaries = []string{
	"Exactly as described",
	"Better than expected",
	"Would buy again",
	"Not quite right",
	"Decent for the price",
}

var bodies = []string{
	"The sizing runs true and the material feels durable after several washes.",
	"Arrived quickly and matched the photos. No complaints so far.",
	"Held up well for a month of daily use before showing any wear.",
	"The color is slightly different from the listing, otherwise fine.",
	"Good value. I would recommend it to anyone who wants the basics done right.",
}

var reviewers = []string{"amy", "bob", "carol", "dinesh", "elena", "farid"}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dsn() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "reviews"),
		getEnv("POSTGRES_PASSWORD", "reviews_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("REVIEWS_DB_NAME", "reviews_db"),
		getEnv("POSTGRES_SSL_MODE", "disable"),
	)
}

func main() {
	products := defaultProducts
	if v := os.Getenv("SEED_PRODUCTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("SEED_PRODUCTS must be a positive integer, got %q", v)
		}
		products = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn())
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}

	// Fixed seed so re-runs produce the same data set.
	rng := rand.New(rand.NewSource(42))

	start := time.Now()
	var reviewTotal int

	for productID := int64(1); productID <= int64(products); productID++ {
		n, err := seedProduct(ctx, pool, rng, productID)
		if err != nil {
			log.Fatalf("seed product %d: %v", productID, err)
		}
		reviewTotal += n

		if productID%100 == 0 {
			log.Printf("seeded %d/%d products (%d reviews)", productID, products, reviewTotal)
		}
	}

	log.Printf("done: %d products, %d reviews in %s", products, reviewTotal, time.Since(start).Round(time.Millisecond))
}

// seedProduct creates the characteristics and reviews for one product inside
// a single transaction, so an interrupted run never leaves a half-seeded
// product behind.
func seedProduct(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, productID int64) (int, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	charIDs := make([]int64, 0, len(characteristicNames))
	for _, name := range characteristicNames {
		var id int64
		err := tx.QueryRow(ctx,
			`INSERT INTO characteristics (product_id, name) VALUES ($1, $2) RETURNING id`,
			productID, name,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert characteristic: %w", err)
		}
		charIDs = append(charIDs, id)
	}

	reviews := 1 + rng.Intn(20)
	for i := 0; i < reviews; i++ {
		if err := seedReview(ctx, tx, rng, productID, charIDs, i); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return reviews, nil
}

func seedReview(ctx context.Context, tx pgx.Tx, rng *rand.Rand, productID int64, charIDs []int64, ordinal int) error {
	rating := 1 + rng.Intn(5)
	reviewer := reviewers[rng.Intn(len(reviewers))]
	created := time.Now().UTC().AddDate(0, 0, -rng.Intn(365))

	var reviewID int64
	err := tx.QueryRow(ctx,
		`INSERT INTO reviews (product_id, rating, summary, body, recommend, reported, reviewer_name, reviewer_email, helpfulness, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		productID,
		rating,
		summaries[rng.Intn(len(summaries))],
		bodies[rng.Intn(len(bodies))],
		rating >= 3,
		rng.Intn(50) == 0,
		reviewer,
		fmt.Sprintf("%s%d@example.com", reviewer, ordinal),
		rng.Intn(30),
		created,
	).Scan(&reviewID)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	photos := rng.Intn(3)
	for p := 0; p < photos; p++ {
		_, err := tx.Exec(ctx,
			`INSERT INTO review_photos (review_id, url, sort_order) VALUES ($1, $2, $3)`,
			reviewID,
			fmt.Sprintf("https://images.example.com/reviews/%d-%d.jpg", reviewID, p),
			p,
		)
		if err != nil {
			return fmt.Errorf("insert photo: %w", err)
		}
	}

	for _, charID := range charIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO characteristic_reviews (characteristic_id, review_id, value) VALUES ($1, $2, $3)`,
			charID, reviewID, 1+rng.Intn(5),
		)
		if err != nil {
			return fmt.Errorf("insert characteristic review: %w", err)
		}
	}

	return nil
}
