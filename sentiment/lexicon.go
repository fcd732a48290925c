package sentiment

// 内置情感词表。基于词集合求交的朴素方案，够用且完全确定；
// 词表是打分契约的一部分，调整词表会改变历史结果的可比性。

var positiveWords = wordSet(
	"love", "great", "excellent", "amazing", "wonderful", "fantastic",
	"perfect", "best", "good", "nice", "awesome", "recommend", "happy",
	"satisfied", "quality", "worth", "impressed", "pleased",
)

var negativeWords = wordSet(
	"bad", "terrible", "awful", "poor", "worst", "hate", "disappointed",
	"waste", "broken", "defective", "useless", "horrible", "unhappy",
	"issue", "problem", "returned", "refund",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
