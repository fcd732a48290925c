package sentiment

import (
	"sort"
	"strings"

	"github.com/rushteam/commercekit/core"
)

// themeMarkers 把评论文本中的固定子串映射为主题标签。
// 子串匹配是刻意的（"pricey" 也算提到了 price）。
var themeMarkers = []struct {
	theme   string
	markers []string
}{
	{"quality", []string{"quality"}},
	{"value", []string{"price", "value"}},
	{"delivery", []string{"delivery", "shipping"}},
	{"customer_service", []string{"customer service", "support"}},
	{"ease_of_use", []string{"easy", "simple"}},
	{"durability", []string{"durable", "sturdy"}},
}

// extractThemes 从评论中提取共性主题。
// positive 为 true 时只看评分 >= 4 的评论，否则只看评分 <= 2 的评论
// （按评分而非文本分类过滤，两个 pass 相互独立）。
// 每条评论对同一主题最多贡献一次，返回出现频率最高的至多 5 个主题，
// 频率相同时按首次出现顺序排列。
func extractThemes(reviews []core.Review, positive bool) []string {
	counts := make(map[string]int)
	var order []string

	for _, r := range reviews {
		if positive && r.Rating < 4 {
			continue
		}
		if !positive && r.Rating > 2 {
			continue
		}

		text := strings.ToLower(r.Text)
		for _, tm := range themeMarkers {
			for _, marker := range tm.markers {
				if strings.Contains(text, marker) {
					if counts[tm.theme] == 0 {
						order = append(order, tm.theme)
					}
					counts[tm.theme]++
					break
				}
			}
		}
	}

	// order 本身是首次出现顺序，stable sort 保证同频主题维持该顺序
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > 5 {
		order = order[:5]
	}
	return order
}

func truncateThemes(themes []string, n int) []string {
	if themes == nil {
		return []string{}
	}
	if len(themes) > n {
		return themes[:n]
	}
	return themes
}
