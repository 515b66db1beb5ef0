package db

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sportlinkhq/sportlink/models"
	"gorm.io/gorm"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))

	first, err := models.NewConversation("alice", "bob")
	require.NoError(t, err)
	created, err := repo.GetOrCreate(first)
	require.NoError(t, err)

	// second call from the other side resolves to the same record
	second, err := models.NewConversation("bob", "alice")
	require.NoError(t, err)
	existing, err := repo.GetOrCreate(second)
	require.NoError(t, err)

	assert.Equal(t, created.ID, existing.ID)
	assert.Equal(t, created.CreatedAt.Unix(), existing.CreatedAt.Unix())
}

func TestGetOrCreateConcurrentFirstContact(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))

	var wg sync.WaitGroup
	results := make([]*models.Conversation, 2)
	errs := make([]error, 2)
	for i, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		wg.Add(1)
		go func(i int, a, b string) {
			defer wg.Done()
			conv, err := models.NewConversation(a, b)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = repo.GetOrCreate(conv)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0].ID, results[1].ID)

	convs, err := repo.ListByUser("alice")
	require.NoError(t, err)
	assert.Len(t, convs, 1)
	assert.Equal(t, "alice", convs[0].ParticipantA)
	assert.Equal(t, "bob", convs[0].ParticipantB)
}

func TestGetNotFound(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))

	_, err := repo.Get("alice_bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByUserOrdering(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))

	now := time.Now()
	older := now.Add(-time.Hour)

	fresh, err := models.NewConversation("alice", "dora")
	require.NoError(t, err)
	_, err = repo.GetOrCreate(fresh)
	require.NoError(t, err)

	active, err := models.NewConversation("alice", "bob")
	require.NoError(t, err)
	_, err = repo.GetOrCreate(active)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateLastMessage(active.ID, "latest", now, "bob"))

	stale, err := models.NewConversation("alice", "carol")
	require.NoError(t, err)
	_, err = repo.GetOrCreate(stale)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateLastMessage(stale.ID, "older", older, "carol"))

	convs, err := repo.ListByUser("alice")
	require.NoError(t, err)
	require.Len(t, convs, 3)
	assert.Equal(t, active.ID, convs[0].ID)
	assert.Equal(t, stale.ID, convs[1].ID)
	// conversation with no messages sorts last
	assert.Equal(t, fresh.ID, convs[2].ID)

	// not a participant: empty, not an error
	none, err := repo.ListByUser("mallory")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByUserFallsBackToClientSideSort(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewConversationRepo(gdb)

	now := time.Now()
	older := now.Add(-time.Hour)

	fresh, err := models.NewConversation("alice", "dora")
	require.NoError(t, err)
	_, err = repo.GetOrCreate(fresh)
	require.NoError(t, err)

	active, err := models.NewConversation("alice", "bob")
	require.NoError(t, err)
	_, err = repo.GetOrCreate(active)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateLastMessage(active.ID, "latest", now, "bob"))

	stale, err := models.NewConversation("alice", "carol")
	require.NoError(t, err)
	_, err = repo.GetOrCreate(stale)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateLastMessage(stale.ID, "older", older, "carol"))

	// fail every ordered query so only the unordered retry can serve the
	// read; the repo must then sort client-side
	require.NoError(t, gdb.DB.Callback().Query().Before("gorm:query").
		Register("fail_ordered_queries", func(tx *gorm.DB) {
			if _, ordered := tx.Statement.Clauses["ORDER BY"]; ordered {
				tx.AddError(errors.New("simulated ordering failure"))
			}
		}))

	convs, err := repo.ListByUser("alice")
	require.NoError(t, err)
	require.Len(t, convs, 3)
	assert.Equal(t, active.ID, convs[0].ID)
	assert.Equal(t, stale.ID, convs[1].ID)
	assert.Equal(t, fresh.ID, convs[2].ID)
}

func TestUpdateLastMessageMissingConversation(t *testing.T) {
	repo := NewConversationRepo(newTestDB(t))

	err := repo.UpdateLastMessage("alice_bob", "hi", time.Now(), "alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
