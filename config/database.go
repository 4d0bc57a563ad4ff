package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL CHECK (role IN ('hotel', 'creator')),
			location VARCHAR(255),
			avatar TEXT,
			bio TEXT,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS collaborations (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			hotel_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			creator_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			initiator_type VARCHAR(20) NOT NULL CHECK (initiator_type IN ('hotel', 'creator')),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			collaboration_type VARCHAR(20) NOT NULL,
			free_stay_max_nights INTEGER,
			paid_amount NUMERIC(10,2),
			discount_percentage INTEGER,
			travel_date_from DATE,
			travel_date_to DATE,
			preferred_date_from DATE,
			preferred_date_to DATE,
			hotel_agreed_at TIMESTAMP,
			creator_agreed_at TIMESTAMP,
			hotel_rated BOOLEAN DEFAULT FALSE,
			creator_rated BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS deliverables (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			collaboration_id UUID NOT NULL REFERENCES collaborations(id) ON DELETE CASCADE,
			platform VARCHAR(50) NOT NULL,
			platform_position INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0,
			deliverable_type VARCHAR(100) NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			completed BOOLEAN DEFAULT FALSE,
			completed_at TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			collaboration_id UUID UNIQUE NOT NULL REFERENCES collaborations(id) ON DELETE CASCADE,
			collaboration_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			last_message_content TEXT,
			last_message_at TIMESTAMP,
			hotel_unread INTEGER DEFAULT 0,
			creator_unread INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			sender_id UUID REFERENCES users(id),
			content_type VARCHAR(20) NOT NULL DEFAULT 'text',
			content TEXT NOT NULL,
			system_event VARCHAR(20),
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_collaborations_hotel_id ON collaborations(hotel_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collaborations_creator_id ON collaborations(creator_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collaborations_status ON collaborations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_deliverables_collaboration_id ON deliverables(collaboration_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_collaboration_id ON conversations(collaboration_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
