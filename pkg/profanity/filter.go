package profanity

import "strings"

// profanityWords 是基础的违禁词列表，采用小写存储，匹配时忽略大小写。
var profanityWords = []string{
	"spam", "scam", "fake", "bullshit", "crap", "stupid", "idiot",
	"moron", "dumb", "suck", "hate", "kill", "die", "damn", "hell",
}

// CheckResult 是一次违禁词检查的结果。
type CheckResult struct {
	HasProfanity bool
	FlaggedWords []string
}

// Check 对文本做子串匹配检查，返回命中的违禁词列表。
func Check(text string) CheckResult {
	if text == "" {
		return CheckResult{}
	}

	lower := strings.ToLower(text)
	var flagged []string
	for _, word := range profanityWords {
		if strings.Contains(lower, word) {
			flagged = append(flagged, word)
		}
	}

	return CheckResult{
		HasProfanity: len(flagged) > 0,
		FlaggedWords: flagged,
	}
}

// Filter 将文本中的违禁词替换为等长的星号，忽略大小写。
func Filter(text string) string {
	if text == "" {
		return text
	}

	for _, word := range profanityWords {
		mask := strings.Repeat("*", len(word))
		for {
			idx := strings.Index(strings.ToLower(text), word)
			if idx < 0 {
				break
			}
			text = text[:idx] + mask + text[idx+len(word):]
		}
	}
	return text
}
