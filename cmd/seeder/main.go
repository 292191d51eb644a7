package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	if value, ok := os.LookupEnv("TURSO_PRIMARY_URL"); ok {
		config["TURSO_PRIMARY_URL"] = value
		if token, ok := os.LookupEnv("TURSO_AUTH_TOKEN"); ok {
			config["TURSO_AUTH_TOKEN"] = token
		} else {
			log.Fatalf("Error: TURSO_AUTH_TOKEN is required when TURSO_PRIMARY_URL is set.")
		}
		return config
	}
	if value, ok := os.LookupEnv("DB_NAME"); ok {
		config["DB_NAME"] = value
		return config
	}
	log.Fatalf("Error: Either TURSO_PRIMARY_URL or DB_NAME must be set.")
	return nil
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	var dbURL string
	if primary, ok := cfg["TURSO_PRIMARY_URL"]; ok {
		dbURL = fmt.Sprintf("%s?authToken=%s", primary, cfg["TURSO_AUTH_TOKEN"])
	} else {
		dbURL = "file:" + cfg["DB_NAME"]
	}
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}

	log.Info("Successfully connected to the database.")

	const sportID = "badminton"
	const playerCount = 24
	const courtCount = 4
	const numMatches = 5000

	now := time.Now()
	eventID := uuid.NewString()
	hostID := "seed-host"

	_, err = db.Exec(`
		INSERT INTO events (id, name, sport_id, host_id, skill_bracket, court_count, status, created_at)
		VALUES (?, ?, ?, ?, 'mixed', ?, 'ACTIVE', ?)
	`, eventID, "Seeded Open Play", sportID, hostID, courtCount, now.Unix())
	if err != nil {
		log.Fatalf("Failed to insert event: %s", err)
	}

	if _, err := db.Exec(`
		INSERT INTO participants (event_id, user_id, name, status, role, premium, joined_at)
		VALUES (?, ?, ?, 'CONFIRMED', 'HOST', 0, ?)
	`, eventID, hostID, "Seed Host", now.Unix()); err != nil {
		log.Fatalf("Failed to insert host participant: %s", err)
	}

	for number := 1; number <= courtCount; number++ {
		if _, err := db.Exec(`
			INSERT INTO courts (event_id, number, status) VALUES (?, ?, 'AVAILABLE')
		`, eventID, number); err != nil {
			log.Fatalf("Failed to insert court %d: %s", number, err)
		}
	}

	// Fake players with randomized premium flags and seeded ratings.
	playerIDs := make([]string, 0, playerCount)
	for i := 0; i < playerCount; i++ {
		userID := fmt.Sprintf("seed-player-%d", i+1)
		playerIDs = append(playerIDs, userID)

		premium := 0
		if gofakeit.Bool() {
			premium = 1
		}
		if _, err := db.Exec(`
			INSERT INTO participants (event_id, user_id, name, status, role, premium, joined_at)
			VALUES (?, ?, ?, 'CHECKED_IN', 'PLAYER', ?, ?)
		`, eventID, userID, gofakeit.Name(), premium, now.Unix()); err != nil {
			log.Fatalf("Failed to insert participant %s: %s", userID, err)
		}

		mmr := 1200 + rand.Float64()*800
		if _, err := db.Exec(`
			INSERT OR IGNORE INTO skill_ratings (user_id, sport_id, mmr, matches_played, wins, losses, last_match_at)
			VALUES (?, ?, ?, 0, 0, 0, NULL)
		`, userID, sportID, mmr); err != nil {
			log.Fatalf("Failed to insert rating for %s: %s", userID, err)
		}
	}
	log.Info("Seeded event roster.", "eventID", eventID, "players", playerCount)

	const batchSize = 100 // Insert 100 matches at a time

	log.Info("Preparing to insert completed match history...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*17) // 17 columns per match

	for i := 0; i < numMatches; i++ {
		matchTime := now.Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		playerA := playerIDs[rand.Intn(playerCount)]
		playerB := playerIDs[rand.Intn(playerCount)]
		for playerB == playerA {
			playerB = playerIDs[rand.Intn(playerCount)]
		}

		scoreA, scoreB := 21, rand.Intn(20)
		result := "PLAYER_A_WIN"
		if gofakeit.Bool() {
			scoreA, scoreB = scoreB, scoreA
			result = "PLAYER_B_WIN"
		}
		score, _ := json.Marshal(map[string]any{
			"sport": sportID,
			"sets":  []map[string]int{{"a": scoreA, "b": scoreB}},
		})

		mmrA := 1200 + rand.Float64()*800
		mmrB := 1200 + rand.Float64()*800

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, 'COMPLETED', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			eventID,
			sportID,
			1+rand.Intn(courtCount),
			playerA,
			playerB,
			string(score),
			result,
			mmrA,
			mmrB,
			mmrA+16,
			mmrB-16,
			matchTime.Unix(),
			40,
			hostID,
			matchTime.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, event_id, sport_id, court_number, player_a, player_b, state,
					score_json, result, mmr_before_a, mmr_before_b, mmr_after_a, mmr_after_b,
					start_time, estimated_minutes, created_by, created_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*17)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted seeded match history.", "duration", duration)
}
