package bot

import (
	"strings"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

var approvalWords = map[string]struct{}{
	"yes": {}, "y": {}, "agree": {}, "ok": {}, "okay": {}, "approve": {}, "confirm": {},
	"✅": {}, "👍": {},
}

var rejectionWords = map[string]struct{}{
	"no": {}, "n": {}, "reject": {}, "disagree": {}, "deny": {}, "cancel": {},
	"❌": {}, "👎": {},
}

// parseCommand splits "/name@bot arg1 arg2" into ("name", [arg1 arg2]).
// Text that is not a command yields an empty name.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), fields[1:]
}

// classifyReply maps a free-text answer to a vote. The first word decides;
// anything that is neither an approval nor a rejection word is not a vote.
func classifyReply(text string) (domain.Vote, bool) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return "", false
	}
	word := strings.Trim(fields[0], ".,!?")
	if _, ok := approvalWords[word]; ok {
		return domain.VoteAgree, true
	}
	if _, ok := rejectionWords[word]; ok {
		return domain.VoteDisagree, true
	}
	return "", false
}

// splitMentions separates @handle tokens from the other arguments.
func splitMentions(args []string) (rest []string, mentions []string) {
	for _, a := range args {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			mentions = append(mentions, a)
			continue
		}
		rest = append(rest, a)
	}
	return rest, mentions
}

// participantsOf returns the author followed by everyone mentioned, deduplicated.
func participantsOf(author string, msgMentions []string, textMentions []string) []string {
	all := make([]string, 0, 1+len(msgMentions)+len(textMentions))
	all = append(all, author)
	all = append(all, msgMentions...)
	all = append(all, textMentions...)
	return domain.DedupeHandles(all)
}

// shortID is the prefix of an entity id shown in chat.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}
