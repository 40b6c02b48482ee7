package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JosiahBull/tom-bot/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

var orphanedRenders = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tombot_orphaned_renders_total",
	Help: "Rendered messages whose backing insert failed.",
})

// SQLite persists shopping list items in an embedded database. All
// operations are independent round trips; the database is the only
// synchronization point between concurrently handled interactions.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path. Parent directories are
// created and the schema is applied if missing.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Info().Str("path", path).Msg("sqlite store initialized")
	return s, nil
}

func (s *SQLite) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS shopping_list_items (
			message_id INTEGER PRIMARY KEY,
			user_id    INTEGER NOT NULL,
			channel_id INTEGER NOT NULL,
			guild_id   INTEGER,
			item       TEXT NOT NULL,
			personal   INTEGER NOT NULL,
			quantity   INTEGER NOT NULL CHECK (quantity >= 1),
			store      TEXT,
			notes      TEXT,
			status     TEXT NOT NULL DEFAULT 'active',
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_user_created
			ON shopping_list_items(user_id, created_at);

		CREATE INDEX IF NOT EXISTS idx_items_created
			ON shopping_list_items(created_at);

		CREATE TABLE IF NOT EXISTS orphaned_renders (
			message_id  INTEGER PRIMARY KEY,
			channel_id  INTEGER NOT NULL,
			item        TEXT NOT NULL,
			recorded_at DATETIME NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Insert(ctx context.Context, item domain.NewShoppingListItem, userID, messageID, channelID uint64, guildID *uint64) error {
	query := `
		INSERT INTO shopping_list_items
			(message_id, user_id, channel_id, guild_id, item, personal, quantity, store, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var guild sql.NullInt64
	if guildID != nil {
		guild = sql.NullInt64{Int64: int64(*guildID), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		int64(messageID),
		int64(userID),
		int64(channelID),
		guild,
		item.Item,
		item.Personal,
		item.Quantity,
		nullString(item.Store),
		nullString(item.Notes),
		string(domain.StatusActive),
		time.Now().UTC(),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert item for message %d: %w", messageID, domain.ErrConflict)
		}
		return fmt.Errorf("insert item for message %d: %w: %v", messageID, domain.ErrStoreUnavailable, err)
	}

	return nil
}

func (s *SQLite) GetByMessageID(ctx context.Context, messageID uint64) (*domain.ShoppingListItem, error) {
	query := `
		SELECT message_id, user_id, channel_id, guild_id, item, personal, quantity, store, notes, status, created_at
		FROM shopping_list_items
		WHERE message_id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, int64(messageID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for message %d: %w: %v", messageID, domain.ErrStoreUnavailable, err)
	}

	return item, nil
}

// SetStatus closes an active item. The WHERE clause makes the call
// idempotent and keeps closed records immutable: a second click, or one that
// races another, matches zero rows and succeeds without effect.
func (s *SQLite) SetStatus(ctx context.Context, userID, messageID uint64, status domain.ItemStatus) error {
	if !status.Closed() {
		return fmt.Errorf("cannot transition message %d back to %q", messageID, status)
	}

	query := `
		UPDATE shopping_list_items
		SET status = $1
		WHERE message_id = $2 AND status = $3`

	res, err := s.db.ExecContext(ctx, query, string(status), int64(messageID), string(domain.StatusActive))
	if err != nil {
		return fmt.Errorf("set status for message %d: %w: %v", messageID, domain.ErrStoreUnavailable, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug().
			Uint64("messageId", messageID).
			Uint64("userId", userID).
			Msg("item already closed or missing, no-op")
	}

	return nil
}

func (s *SQLite) RecentItemsForUser(ctx context.Context, userID uint64, limit int) ([]domain.ShoppingListItem, error) {
	query := `
		SELECT message_id, user_id, channel_id, guild_id, item, personal, quantity, store, notes, status, created_at
		FROM shopping_list_items
		WHERE user_id = $1
		ORDER BY created_at DESC, message_id DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, int64(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("recent items for user %d: %w: %v", userID, domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (s *SQLite) RecentItems(ctx context.Context, limit int) ([]domain.ShoppingListItem, error) {
	query := `
		SELECT message_id, user_id, channel_id, guild_id, item, personal, quantity, store, notes, status, created_at
		FROM shopping_list_items
		ORDER BY created_at DESC, message_id DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent items: %w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (s *SQLite) RecordOrphan(ctx context.Context, messageID, channelID uint64, item string) error {
	query := `
		INSERT OR IGNORE INTO orphaned_renders (message_id, channel_id, item, recorded_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query, int64(messageID), int64(channelID), item, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record orphan for message %d: %w: %v", messageID, domain.ErrStoreUnavailable, err)
	}

	orphanedRenders.Inc()
	return nil
}

func (s *SQLite) Orphans(ctx context.Context) ([]domain.OrphanedRender, error) {
	query := `
		SELECT message_id, channel_id, item, recorded_at
		FROM orphaned_renders
		ORDER BY recorded_at ASC, message_id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orphans: %w: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var orphans []domain.OrphanedRender
	for rows.Next() {
		var o domain.OrphanedRender
		var messageID, channelID int64
		if err := rows.Scan(&messageID, &channelID, &o.Item, &o.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan orphan: %w", err)
		}
		o.MessageID = uint64(messageID)
		o.ChannelID = uint64(channelID)
		orphans = append(orphans, o)
	}

	return orphans, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.ShoppingListItem, error) {
	var item domain.ShoppingListItem
	var messageID, userID, channelID int64
	var guild sql.NullInt64
	var store, notes sql.NullString
	var status string

	err := row.Scan(&messageID, &userID, &channelID, &guild,
		&item.Item, &item.Personal, &item.Quantity, &store, &notes, &status, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	item.MessageID = uint64(messageID)
	item.UserID = uint64(userID)
	item.ChannelID = uint64(channelID)
	if guild.Valid {
		g := uint64(guild.Int64)
		item.GuildID = &g
	}
	if store.Valid {
		item.Store = &store.String
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	item.Status = domain.ItemStatus(status)

	return &item, nil
}

func collectItems(rows *sql.Rows) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
