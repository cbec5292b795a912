package main

import (
	"database/sql"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"upo-server/internal/infra"
)

// schema is idempotent; re-running the migrator is always safe.
const schema = `
create extension if not exists pgcrypto;

create table if not exists presets (
    id uuid primary key,
    name text not null,
    payload jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now()
);

create unique index if not exists presets_name_idx on presets (lower(name));

create table if not exists usage_events (
    id uuid primary key,
    request_id text,
    event_type text not null,
    country text,
    success boolean not null default true,
    latency_ms int not null default 0,
    created_at timestamptz not null default now(),
    properties jsonb not null default '{}'::jsonb
);

create index if not exists usage_events_created_at_idx on usage_events (created_at);
`

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("failed to reach database")
	}

	if _, err := db.Exec(schema); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}
	logger.Info().Msg("schema applied")
}
