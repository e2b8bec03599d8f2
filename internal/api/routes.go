package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sketch_party/internal/api/handlers"
	"sketch_party/internal/middleware"
	"sketch_party/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	roomHandler := handlers.NewRoomHandler(services.Room)
	gameHandler := handlers.NewGameHandler(services.Game)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager, services.Room)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/guest", authHandler.Guest)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 遊戲房間相關
		rooms := authorized.Group("/rooms")
		{
			// 名冊操作
			rooms.POST("", roomHandler.CreateRoom)                      // 創建房間
			rooms.GET("/:id", roomHandler.GetRoom)                      // 獲取房間與名冊
			rooms.POST("/join", roomHandler.JoinRoom)                   // 以代碼加入房間
			rooms.POST("/rejoin", roomHandler.Rejoin)                   // 重連找回玩家
			rooms.POST("/:id/leave", roomHandler.LeaveRoom)             // 離開房間
			rooms.PUT("/:id/settings", roomHandler.UpdateSettings)      // 修改設定（房主）
			rooms.GET("/:id/remaining", roomHandler.GetRemainingTime)   // 階段剩餘秒數

			// 遊戲流程
			rooms.POST("/:id/start", gameHandler.StartGame)             // 開始遊戲（房主）
			rooms.POST("/:id/drawings", gameHandler.SubmitDrawing)      // 提交作品
			rooms.POST("/:id/votes", gameHandler.CastVote)              // 評分作品
			rooms.POST("/:id/advance", gameHandler.Advance)             // 計時完成提示
			rooms.GET("/:id/rounds/:round/drawings", gameHandler.RoundDrawings) // 回合作品列表

			// WebSocket 連接點，訂閱房間事件
			rooms.GET("/:id/ws", wsHandler.HandleWebSocket)
		}
	}
}
