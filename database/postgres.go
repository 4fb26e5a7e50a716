package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"referral-analytics/config"
	"referral-analytics/models"
)

var Pool *pgxpool.Pool

func InitDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var err error
	Pool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := Pool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	logger.Info("✅ Подключение к PostgreSQL установлено", zap.String("db", cfg.DBName))
	return nil
}

func CloseDB(logger *zap.Logger) {
	if Pool != nil {
		Pool.Close()
		logger.Info("🛑 Соединение с PostgreSQL закрыто")
	}
}

// Querier - часть pgxpool.Pool, нужная источнику.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource читает пользователей и уведомления как JSON-объекты строк.
// Схема таблиц не фиксируется: каждая строка уходит в row_to_json.
type PostgresSource struct {
	db                 Querier
	usersTable         string
	notificationsTable string
	logger             *zap.Logger
}

func NewPostgresSource(db Querier, usersTable, notificationsTable string, logger *zap.Logger) *PostgresSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresSource{
		db:                 db,
		usersTable:         usersTable,
		notificationsTable: notificationsTable,
		logger:             logger,
	}
}

// rowsAsJSONQuery строит запрос для таблицы вида "table" или "schema.table".
func rowsAsJSONQuery(table string) string {
	ident := pgx.Identifier(strings.Split(table, "."))
	return "SELECT row_to_json(t)::text FROM " + ident.Sanitize() + " AS t"
}

func (s *PostgresSource) Fetch(ctx context.Context) (*models.Export, error) {
	users, err := s.readTable(ctx, s.usersTable)
	if err != nil {
		return nil, err
	}
	notifications, err := s.readTable(ctx, s.notificationsTable)
	if err != nil {
		return nil, err
	}

	exp := models.BuildExport(users, notifications)
	s.logger.Debug("📥 Выгрузка из PostgreSQL",
		zap.Int("users", len(exp.Users)),
		zap.Int("notifications", len(exp.Notifications)))
	return exp, nil
}

func (s *PostgresSource) readTable(ctx context.Context, table string) ([]json.RawMessage, error) {
	rows, err := s.db.Query(ctx, rowsAsJSONQuery(table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (json.RawMessage, error) {
		var text string
		if err := row.Scan(&text); err != nil {
			return nil, err
		}
		return json.RawMessage(text), nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return items, nil
}
