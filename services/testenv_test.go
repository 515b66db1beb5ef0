package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sportlinkhq/sportlink/db"
	"github.com/sportlinkhq/sportlink/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *db.GormDB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return &db.GormDB{DB: gdb}
}

func seedUser(t *testing.T, repo db.UserRepository, id string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		ID:       id,
		FullName: "Test " + id,
		Email:    id + "@example.com",
		Role:     role,
	}
	require.NoError(t, user.SetPassword("secret-"+id))
	created, err := repo.CreateUser(user)
	require.NoError(t, err)
	return created
}

// recordingPublisher captures hub notifications for assertions.
type recordingPublisher struct {
	mu            sync.Mutex
	conversations []models.Conversation
	messages      []models.Message
}

func (p *recordingPublisher) PublishConversation(conv *models.Conversation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conversations = append(p.conversations, *conv)
}

func (p *recordingPublisher) PublishMessage(msg *models.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, *msg)
}

func (p *recordingPublisher) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conversations), len(p.messages)
}
