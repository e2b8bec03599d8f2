package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketch_party/internal/models"
)

func TestScoreDelta(t *testing.T) {
	votes := func(ratings ...int) []models.Vote {
		vs := make([]models.Vote, len(ratings))
		for i, r := range ratings {
			vs[i] = models.Vote{Rating: r}
		}
		return vs
	}

	tests := []struct {
		name  string
		mode  models.ScoringMode
		votes []models.Vote
		want  int
	}{
		{"rating averages and scales", models.ScoringModeRating, votes(5, 3), 400},
		{"rating single vote", models.ScoringModeRating, votes(4), 400},
		{"rating rounds halves up", models.ScoringModeRating, votes(4, 5), 450},
		{"rating uneven mean", models.ScoringModeRating, votes(5, 4, 4), 433},
		{"rating no votes", models.ScoringModeRating, nil, 0},
		{"count is one per vote", models.ScoringModeCount, votes(5, 1), 2},
		{"count ignores rating value", models.ScoringModeCount, votes(0), 1},
		{"count no votes", models.ScoringModeCount, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreDelta(tt.mode, tt.votes))
		})
	}
}

// count 模式的房間走一次結算：每票 +1 分
func TestCountModeScoring(t *testing.T) {
	env := newTestEnv(t)

	settings := RoomSettings{TotalRounds: 1, DrawTime: 60, VoteTime: 30, ScoringMode: "count"}
	room, _, err := env.room.CreateRoom(1, "host", settings)
	require.NoError(t, err)
	for i := 2; i <= 3; i++ {
		_, err := env.room.JoinRoom(room.Code, uint(i), "player")
		require.NoError(t, err)
	}
	_, err = env.game.StartGame(room.ID, 1)
	require.NoError(t, err)

	players, err := env.repos.Player.FindByRoom(room.ID)
	require.NoError(t, err)

	_, _, err = env.game.SubmitDrawing(room.ID, 1, 1, []byte("a"))
	require.NoError(t, err)
	_, _, err = env.game.SubmitDrawing(room.ID, 2, 1, []byte("b"))
	require.NoError(t, err)

	env.advanceTo(t, room.ID, models.PhaseVoting)

	drawings, err := env.repos.Drawing.FindByRoomAndRound(room.ID, 1)
	require.NoError(t, err)
	byPlayer := map[uint]models.Drawing{}
	for _, d := range drawings {
		byPlayer[d.PlayerID] = d
	}

	// A 的作品兩票，B 的作品一票
	_, err = env.game.CastVote(room.ID, 2, byPlayer[players[0].ID].ID, 5)
	require.NoError(t, err)
	_, err = env.game.CastVote(room.ID, 3, byPlayer[players[0].ID].ID, 3)
	require.NoError(t, err)
	_, err = env.game.CastVote(room.ID, 1, byPlayer[players[1].ID].ID, 4)
	require.NoError(t, err)

	env.advanceTo(t, room.ID, models.PhaseResults)

	after, err := env.repos.Player.FindByRoom(room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after[0].Score)
	assert.Equal(t, 1, after[1].Score)
	assert.Equal(t, 0, after[2].Score)
}

// 作品擁有者先離開房間時靜默跳過，剩下的結算照常進行
func TestScoringSkipsDepartedOwner(t *testing.T) {
	env := newTestEnv(t)
	room, players := env.startedRoom(t, 3, 1)

	_, _, err := env.game.SubmitDrawing(room.ID, 1, 1, []byte("a"))
	require.NoError(t, err)
	_, _, err = env.game.SubmitDrawing(room.ID, 2, 1, []byte("b"))
	require.NoError(t, err)

	env.advanceTo(t, room.ID, models.PhaseVoting)

	drawings, err := env.repos.Drawing.FindByRoomAndRound(room.ID, 1)
	require.NoError(t, err)
	byPlayer := map[uint]models.Drawing{}
	for _, d := range drawings {
		byPlayer[d.PlayerID] = d
	}

	_, err = env.game.CastVote(room.ID, 3, byPlayer[players[0].ID].ID, 5)
	require.NoError(t, err)
	_, err = env.game.CastVote(room.ID, 3, byPlayer[players[1].ID].ID, 4)
	require.NoError(t, err)

	// 玩家 2 在結算前離開
	require.NoError(t, env.room.LeaveRoom(room.ID, 2))

	env.advanceTo(t, room.ID, models.PhaseResults)

	owner, err := env.repos.Player.FindByID(players[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 500, owner.Score)
}
