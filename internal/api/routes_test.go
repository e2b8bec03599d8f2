package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sketch_party/internal/models"
	"sketch_party/internal/repository"
	"sketch_party/internal/service"
	"sketch_party/internal/storage"
	"sketch_party/pkg/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := &storage.PostgresDB{DB: gdb}
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Room{}, &models.Player{},
		&models.Drawing{}, &models.Vote{}, &models.UsedPrompt{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{Game: config.GameConfig{
		GallerySeconds: 8, ResultsSeconds: 10, TickInterval: 2,
		MaxPlayers: 8, ScoringMode: "rating",
	}}

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, cfg, nil, log)

	r := gin.New()
	SetupRoutes(r, services)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func guestToken(t *testing.T, r *gin.Engine, name string) string {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/api/guest", "", gin.H{"display_name": name})
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, resp := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp["status"])
}

func TestRoomRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)
	w, _ := doJSON(t, r, http.MethodPost, "/api/rooms", "", gin.H{"username": "ann"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{"username": "ann", "password": "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"username": "ann", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp["token"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{"username": "ann", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoomLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	hostToken := guestToken(t, r, "host")
	amyToken := guestToken(t, r, "amy")
	lateToken := guestToken(t, r, "late")

	// 建立房間
	w, resp := doJSON(t, r, http.MethodPost, "/api/rooms", hostToken, gin.H{"username": "host"})
	require.Equal(t, http.StatusCreated, w.Code)
	room := resp["room"].(map[string]interface{})
	code := room["code"].(string)
	roomID := fmt.Sprintf("%.0f", room["ID"].(float64))
	require.NotEmpty(t, code)

	// 第二位玩家加入
	w, _ = doJSON(t, r, http.MethodPost, "/api/rooms/join", amyToken, gin.H{"code": code, "username": "amy"})
	require.Equal(t, http.StatusOK, w.Code)

	// 非房主不能改設定
	w, _ = doJSON(t, r, http.MethodPut, "/api/rooms/"+roomID+"/settings", amyToken, gin.H{"total_rounds": 5})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 房主開始遊戲
	w, resp = doJSON(t, r, http.MethodPost, "/api/rooms/"+roomID+"/start", hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "drawing", resp["phase"])

	// 遊戲已開始，局外人吃到衝突
	w, _ = doJSON(t, r, http.MethodPost, "/api/rooms/join", lateToken, gin.H{"code": code, "username": "late"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 期限未到，推進提示是 NoOp
	w, resp = doJSON(t, r, http.MethodPost, "/api/rooms/"+roomID+"/advance", hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["advanced"])

	// 剩餘秒數可查
	w, resp = doJSON(t, r, http.MethodGet, "/api/rooms/"+roomID+"/remaining", hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Greater(t, resp["remaining_time"].(float64), float64(0))
}
