// Copyright (c) Microsoft. All rights reserved.

// Package history persists chat transcripts in a relational database so
// a user can resume a conversation thread across processes. The service
// keeps the authoritative thread history; this store keeps the mapping
// from users to threads plus a queryable copy of the exchanged messages.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jochenvw/agent-service-go/agents"
)

// ChatMessage is one persisted chat turn.
type ChatMessage struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:255;index"`
	ThreadID  string `gorm:"size:255"`
	Role      string `gorm:"size:50"`
	Message   string `gorm:"type:text"`
	CreatedAt time.Time
}

// TableName pins the table name regardless of gorm's pluralization rules.
func (ChatMessage) TableName() string { return "chat_messages" }

// ThreadCreatorFunc creates a new service-side thread and returns its ID.
// [Store.ThreadFor] calls it when a user has no recorded thread yet.
type ThreadCreatorFunc func(ctx context.Context) (string, error)

// Store is a database-backed chat history.
type Store struct {
	db *gorm.DB
}

// Open connects to a Postgres database and returns a migrated [Store].
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return New(db)
}

// New wraps an existing gorm connection, running schema migration.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&ChatMessage{}); err != nil {
		return nil, fmt.Errorf("migrate chat_messages: %w", err)
	}
	return &Store{db: db}, nil
}

// ThreadFor returns the thread recorded for the user. When the user has
// no history yet, create is called to make a fresh service thread; the
// new thread ID is returned but not recorded until the first [Store.Append].
func (s *Store) ThreadFor(ctx context.Context, userID string, create ThreadCreatorFunc) (string, error) {
	var msg ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		First(&msg).Error
	if err == nil {
		return msg.ThreadID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("look up thread for %s: %w", userID, err)
	}

	if create == nil {
		return "", fmt.Errorf("no thread recorded for %s and no creator provided", userID)
	}
	return create(ctx)
}

// Append records one chat turn for the user.
func (s *Store) Append(ctx context.Context, userID, threadID string, role agents.Role, text string) error {
	msg := ChatMessage{
		UserID:   userID,
		ThreadID: threadID,
		Role:     string(role),
		Message:  text,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	return nil
}

// History returns the user's chat turns ordered oldest first.
func (s *Store) History(ctx context.Context, userID string) ([]ChatMessage, error) {
	var msgs []ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("load chat history for %s: %w", userID, err)
	}
	return msgs, nil
}
