package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketch_party/internal/models"
)

func TestPhaseDriverStartStop(t *testing.T) {
	env := newTestEnv(t)
	driver := NewPhaseDriver(env.game, 1, quietLogger())

	driver.Start(context.Background())
	driver.Stop()
}

// 驅動器掃到期限已過的房間時自動推進
func TestPhaseDriverAdvancesExpiredRoom(t *testing.T) {
	env := newTestEnv(t)
	room, _ := env.startedRoom(t, 2, 1)
	env.expireDeadline(t, room.ID)

	driver := NewPhaseDriver(env.game, 1, quietLogger())
	driver.Start(context.Background())
	defer driver.Stop()

	require.Eventually(t, func() bool {
		fresh, err := env.repos.Room.FindByID(room.ID)
		if err != nil {
			return false
		}
		return fresh.Phase == models.PhaseGallery
	}, 5*time.Second, 100*time.Millisecond)

	fresh, err := env.repos.Room.FindByID(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseGallery, fresh.Phase)
	assert.NotNil(t, fresh.PhaseDeadline)
}
