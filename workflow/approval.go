package workflow

import (
	"strings"
	"unicode"
)

// Decision is the approval gate's verdict on a human reply.
type Decision string

const (
	// DecisionApproved releases the paused side-effecting action.
	DecisionApproved Decision = "approved"
	// DecisionCancelled stops the workflow. Also the verdict for any
	// reply the gate cannot clearly recognize — the gate fails closed.
	DecisionCancelled Decision = "cancelled"
)

// Keyword lists are fixed and static: containment matching only, no
// learned or fuzzy interpretation. Negatives are checked first so that
// "no, don't send these" cancels even though it contains "send".
var (
	negativeKeywords = []string{
		"no", "cancel", "stop", "don't", "do not", "reject", "abort", "skip",
		"取消", "不要", "不行", "不发", "算了", "拒绝",
	}
	affirmativeKeywords = []string{
		"yes", "approve", "approved", "ok", "okay", "confirm", "confirmed",
		"send", "go ahead", "sure", "proceed", "do it", "sounds good",
		"确认", "可以", "好的", "发送", "发吧", "批准", "同意", "没问题",
	}
)

// Classify interprets a free-text human reply as approve or cancel.
// Matching is case-insensitive containment against the fixed keyword
// sets. Anything not unambiguously an approval — including an empty
// reply — is cancelled.
func Classify(message string) Decision {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return DecisionCancelled
	}

	for _, kw := range negativeKeywords {
		if containsKeyword(msg, kw) {
			return DecisionCancelled
		}
	}
	for _, kw := range affirmativeKeywords {
		if containsKeyword(msg, kw) {
			return DecisionApproved
		}
	}
	return DecisionCancelled
}

// containsKeyword reports whether msg contains kw. Single ASCII words
// match on token boundaries ("no" must not fire inside "know"); phrases
// and CJK keywords match as substrings.
func containsKeyword(msg, kw string) bool {
	if strings.ContainsRune(kw, ' ') || !isASCII(kw) {
		return strings.Contains(msg, kw)
	}

	for _, token := range strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	}) {
		if token == kw {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
