package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// PhaseDriver 週期性地掃描期限已過的房間並推進階段
// 它是無狀態的觸發器，和客戶端的計時提示共用同一個 Advance 合約，
// 多個觸發來源同時打到同一房間也只會有一次轉換生效
type PhaseDriver struct {
	game     *GameService
	interval time.Duration
	log      *logrus.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewPhaseDriver(game *GameService, intervalSeconds int, log *logrus.Logger) *PhaseDriver {
	if intervalSeconds < 1 {
		intervalSeconds = 2
	}
	return &PhaseDriver{
		game:     game,
		interval: time.Duration(intervalSeconds) * time.Second,
		log:      log,
	}
}

// Start 啟動掃描迴圈
func (d *PhaseDriver) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		d.log.WithField("interval", d.interval).Info("phase driver started")
		for {
			select {
			case <-ctx.Done():
				d.log.Info("phase driver stopped")
				return
			case <-ticker.C:
				transitions := d.game.AdvanceExpired()
				for _, tr := range transitions {
					d.log.WithFields(logrus.Fields{
						"room": tr.RoomID, "from": tr.From, "to": tr.To,
					}).Debug("driver advanced room")
				}
			}
		}
	}()
}

// Stop 停止掃描並等待迴圈結束
func (d *PhaseDriver) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
}
