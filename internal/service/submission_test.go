package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketch_party/internal/models"
)

// 同一人同一回合重複提交：第二次視為成功但不產生第二筆資料
func TestSubmitDrawingIdempotent(t *testing.T) {
	env := newTestEnv(t)
	room, _ := env.startedRoom(t, 2, 1)

	first, already, err := env.game.SubmitDrawing(room.ID, 1, 1, []byte("original"))
	require.NoError(t, err)
	assert.False(t, already)

	second, already, err := env.game.SubmitDrawing(room.ID, 1, 1, []byte("retry"))
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, first.ID, second.ID)
	// 以第一次提交為準，重試不覆蓋
	assert.Equal(t, []byte("original"), second.ImageData)

	var count int64
	require.NoError(t, env.db.Model(&models.Drawing{}).
		Where("room_id = ?", room.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitDrawingValidation(t *testing.T) {
	env := newTestEnv(t)
	room, _ := env.startedRoom(t, 2, 1)

	// 回合不符
	_, _, err := env.game.SubmitDrawing(room.ID, 1, 99, []byte("img"))
	assert.ErrorIs(t, err, ErrWrongRound)

	// 局外人不能提交
	_, _, err = env.game.SubmitDrawing(room.ID, 42, 1, []byte("img"))
	assert.ErrorIs(t, err, ErrNotAParticipant)

	// 空白作品要明確拒絕，不是默默略過
	_, _, err = env.game.SubmitDrawing(room.ID, 1, 1, nil)
	assert.ErrorIs(t, err, ErrEmptyDrawing)

	// 非繪畫階段不收作品
	env.advanceTo(t, room.ID, models.PhaseGallery)
	_, _, err = env.game.SubmitDrawing(room.ID, 1, 1, []byte("img"))
	assert.ErrorIs(t, err, ErrWrongPhase)
}

// 多人投同一張作品時，統計值要反映所有已寫入的票
func TestCastVoteAggregates(t *testing.T) {
	env := newTestEnv(t)
	room, _ := env.startedRoom(t, 3, 1)

	drawing, _, err := env.game.SubmitDrawing(room.ID, 1, 1, []byte("img"))
	require.NoError(t, err)
	env.advanceTo(t, room.ID, models.PhaseVoting)

	_, err = env.game.CastVote(room.ID, 2, drawing.ID, 5)
	require.NoError(t, err)
	updated, err := env.game.CastVote(room.ID, 3, drawing.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.VoteCount)
	assert.Equal(t, 8, updated.RatingSum)
}

// 自己的作品不能評分，不論階段
func TestSelfVoteAlwaysRejected(t *testing.T) {
	env := newTestEnv(t)
	room, _ := env.startedRoom(t, 2, 1)

	drawing, _, err := env.game.SubmitDrawing(room.ID, 1, 1, []byte("mine"))
	require.NoError(t, err)

	// 還在繪畫階段也一樣擋下
	_, err = env.game.CastVote(room.ID, 1, drawing.ID, 5)
	assert.ErrorIs(t, err, ErrSelfVote)

	env.advanceTo(t, room.ID, models.PhaseVoting)
	_, err = env.game.CastVote(room.ID, 1, drawing.ID, 5)
	assert.ErrorIs(t, err, ErrSelfVote)
}

func TestCastVoteDuplicate(t *testing.T) {
	env := newTestEnv(t)
	room, _ := env.startedRoom(t, 2, 1)

	drawing, _, err := env.game.SubmitDrawing(room.ID, 1, 1, []byte("img"))
	require.NoError(t, err)
	env.advanceTo(t, room.ID, models.PhaseVoting)

	updated, err := env.game.CastVote(room.ID, 2, drawing.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.VoteCount)
	assert.Equal(t, 4, updated.RatingSum)

	// 第二票要回報 AlreadyVoted，而不是一般性的失敗
	_, err = env.game.CastVote(room.ID, 2, drawing.ID, 2)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	// 統計值只反映一票
	after, err := env.repos.Drawing.FindByID(drawing.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.VoteCount)
	assert.Equal(t, 4, after.RatingSum)
}

func TestCastVoteValidation(t *testing.T) {
	env := newTestEnv(t)
	room, _ := env.startedRoom(t, 2, 1)

	drawing, _, err := env.game.SubmitDrawing(room.ID, 1, 1, []byte("img"))
	require.NoError(t, err)

	// 評分必須在 0 到 5 之間
	_, err = env.game.CastVote(room.ID, 2, drawing.ID, 6)
	assert.ErrorIs(t, err, ErrBadRating)
	_, err = env.game.CastVote(room.ID, 2, drawing.ID, -1)
	assert.ErrorIs(t, err, ErrBadRating)

	// 繪畫階段還不能投票
	_, err = env.game.CastVote(room.ID, 2, drawing.ID, 3)
	assert.ErrorIs(t, err, ErrWrongPhase)

	// 不存在的作品
	env.advanceTo(t, room.ID, models.PhaseVoting)
	_, err = env.game.CastVote(room.ID, 2, 9999, 3)
	assert.ErrorIs(t, err, ErrDrawingNotFound)
}
