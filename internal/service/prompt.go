package service

import (
	"crypto/rand"
	"math/big"
)

// 內建題目池，設定檔沒有提供題目時使用
var defaultPrompts = []string{
	"太空人在月球上騎腳踏車",
	"一隻戴墨鏡的貓",
	"正在吃拉麵的恐龍",
	"下雨天的夜市",
	"會飛的鯨魚",
	"機器人在煮火鍋",
	"海盜船上的生日派對",
	"一座用甜點蓋成的城堡",
	"打太極拳的熊貓",
	"塞車中的外星飛碟",
	"在圖書館睡著的貓頭鷹",
	"騎掃帚的章魚",
	"雪人在海邊度假",
	"舉重比賽中的螞蟻",
	"開計程車的企鵝",
	"火山口上的溜滑梯",
	"穿西裝的鱷魚上班族",
	"用彩虹當橋的城市",
	"在太空站種菜的爺爺",
	"跳芭蕾舞的大象",
}

// PromptPool 提供題目的隨機抽選，同一房間不重複出題
type PromptPool struct {
	prompts []string
}

func NewPromptPool(prompts []string) *PromptPool {
	if len(prompts) == 0 {
		prompts = defaultPrompts
	}
	return &PromptPool{prompts: prompts}
}

// Pick 從題目池隨機抽出一題，排除已出過的題目
// 題目全部出完時退回整個題目池重抽
func (p *PromptPool) Pick(used map[string]bool) string {
	candidates := make([]string, 0, len(p.prompts))
	for _, prompt := range p.prompts {
		if !used[prompt] {
			candidates = append(candidates, prompt)
		}
	}
	if len(candidates) == 0 {
		candidates = p.prompts
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	if err != nil {
		return candidates[0]
	}
	return candidates[n.Int64()]
}

// Size 回報題目池的大小
func (p *PromptPool) Size() int {
	return len(p.prompts)
}
