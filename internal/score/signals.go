package score

import "github.com/sells-group/leadgen-cli/internal/model"

// signalPhrases maps breakdown keys to reader-facing phrases, in the
// order they are rendered.
var signalPhrases = []struct {
	key    string
	phrase string
}{
	{"missingWebsite", "no website found"},
	{"missingEmail", "no email address found"},
	{"onlyGenericEmail", "only generic email addresses found"},
	{"lowReviews", "few or no customer reviews"},
	{"noSocialPresence", "no social media presence"},
	{"soleTrader", "no registered company found, likely a sole trader"},
	{"businessAge", "established business trading over a decade"},
	{"decisionMaker", "decision maker identified"},
	{"personalEmail", "personal email address available"},
	{"verifiedEmail", "verified email address available"},
	{"profNetwork", "professional network profile found"},
	{"goodReviews", "strong review presence"},
	{"localDistance", "local to the campaign base"},
}

// Signals renders a score breakdown as human-readable phrases in a
// stable order. A nil or empty breakdown yields nil.
func Signals(ls *model.LeadScore) []string {
	if ls == nil || len(ls.Breakdown) == 0 {
		return nil
	}
	var out []string
	for _, sp := range signalPhrases {
		if _, ok := ls.Breakdown[sp.key]; ok {
			out = append(out, sp.phrase)
		}
	}
	return out
}
