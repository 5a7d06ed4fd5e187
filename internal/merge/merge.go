// Package merge folds partial collector results into a lead. Every rule
// is deterministic for a given arrival order, and applying the same
// result twice changes nothing, so the orchestrator can merge
// incrementally after each stage without bookkeeping.
package merge

import (
	"strings"

	"github.com/sells-group/leadgen-cli/internal/collect"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Apply folds one collector result into the lead in place and records the
// contributing source. Empty results leave the lead untouched.
func Apply(lead *model.Lead, r *collect.Result) {
	if r.Empty() {
		return
	}
	if r.Website != "" {
		Website(lead, r.Website, r.Source)
	}
	Emails(lead, r.Emails)
	Phones(lead, r.Phones)
	People(lead, r.People)
	Social(lead, r.Social)
	Addresses(lead, r.Addresses)
	recordSource(lead, r.Source)
}

// Website writes the website slot. The slot is first-writer-wins within a
// priority tier; a later write only lands when its source strictly
// outranks the current one, so a registry-confirmed site can replace a
// search-discovered one but never the other way round.
func Website(lead *model.Lead, rawURL string, source model.Source) {
	if strings.TrimSpace(rawURL) == "" || model.DomainOf(rawURL) == "" {
		return
	}
	if lead.Website != "" && model.WebsitePriority(source) >= model.WebsitePriority(lead.WebsiteSource) {
		return
	}
	lead.Website = rawURL
	lead.WebsiteSource = source
}

// Emails merges candidates keyed by normalized address. A collision keeps
// the higher-confidence entry, the verified flag is sticky once true, and
// an attributed person name is never dropped for an anonymous duplicate.
func Emails(lead *model.Lead, candidates []model.EmailCandidate) {
	lead.Emails = mergeEmails(lead.Emails, candidates)
}

func mergeEmails(existing, incoming []model.EmailCandidate) []model.EmailCandidate {
	index := make(map[string]int, len(existing))
	for i, c := range existing {
		index[model.NormalizeEmail(c.Address)] = i
	}

	for _, c := range incoming {
		key := model.NormalizeEmail(c.Address)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			index[key] = len(existing)
			existing = append(existing, c)
			continue
		}

		kept := &existing[i]
		if c.Confidence > kept.Confidence {
			verified := kept.Verified || c.Verified
			personName := c.PersonName
			if personName == "" {
				personName = kept.PersonName
			}
			*kept = c
			kept.Verified = verified
			kept.PersonName = personName
			continue
		}
		if c.Verified {
			kept.Verified = true
		}
		if kept.PersonName == "" {
			kept.PersonName = c.PersonName
		}
	}
	return existing
}

// Phones merges candidates keyed by normalized digits, so the national
// and international forms of one number collapse into a single entry.
// The first-seen entry keeps its type classification.
func Phones(lead *model.Lead, candidates []model.PhoneCandidate) {
	seen := make(map[string]bool, len(lead.Phones))
	for _, p := range lead.Phones {
		seen[model.PhoneKey(p.Number)] = true
	}
	for _, c := range candidates {
		key := model.PhoneKey(c.Number)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		lead.Phones = append(lead.Phones, c)
	}
}

// People merges people keyed by lowercased name, with an identical
// profile URL also counting as the same person. A collision keeps the
// richer record: a named role beats an empty one, missing name parts and
// the profile URL are filled in, and owned emails are unioned under the
// email merge rules.
func People(lead *model.Lead, people []model.Person) {
	for _, p := range people {
		if i, ok := findPerson(lead.People, p); ok {
			mergePerson(&lead.People[i], p)
			continue
		}
		lead.People = append(lead.People, p)
	}
}

func findPerson(existing []model.Person, p model.Person) (int, bool) {
	key := model.PersonKey(p.Name)
	for i := range existing {
		if key != "" && model.PersonKey(existing[i].Name) == key {
			return i, true
		}
		if p.ProfileURL != "" && existing[i].ProfileURL == p.ProfileURL {
			return i, true
		}
	}
	return 0, false
}

func mergePerson(kept *model.Person, incoming model.Person) {
	if kept.Role == "" {
		kept.Role = incoming.Role
	}
	if kept.FirstName == "" {
		kept.FirstName = incoming.FirstName
	}
	if kept.LastName == "" {
		kept.LastName = incoming.LastName
	}
	if kept.ProfileURL == "" {
		kept.ProfileURL = incoming.ProfileURL
	}
	kept.Emails = mergeEmails(kept.Emails, incoming.Emails)
}

// Social fills per-platform links. The first non-empty link for a
// platform wins; later sources never override it.
func Social(lead *model.Lead, links map[model.SocialPlatform]string) {
	if len(links) == 0 {
		return
	}
	if lead.SocialMedia == nil {
		lead.SocialMedia = make(map[model.SocialPlatform]string, len(links))
	}
	for platform, link := range links {
		if link == "" {
			continue
		}
		if _, ok := lead.SocialMedia[platform]; !ok {
			lead.SocialMedia[platform] = link
		}
	}
}

// Addresses appends addresses deduplicated by kind and normalized text.
// Trading and registered addresses coexist; a duplicate only contributes
// a postcode the kept entry was missing.
func Addresses(lead *model.Lead, addresses []model.AddressRecord) {
	for _, a := range addresses {
		if strings.TrimSpace(a.Address) == "" {
			continue
		}
		key := addressKey(a)
		merged := false
		for i := range lead.Addresses {
			if addressKey(lead.Addresses[i]) == key {
				if lead.Addresses[i].Postcode == "" {
					lead.Addresses[i].Postcode = a.Postcode
				}
				merged = true
				break
			}
		}
		if !merged {
			lead.Addresses = append(lead.Addresses, a)
		}
	}
}

func addressKey(a model.AddressRecord) string {
	text := strings.ToLower(strings.Join(strings.Fields(a.Address), " "))
	return string(a.Kind) + "|" + text
}

func recordSource(lead *model.Lead, source model.Source) {
	name := string(source)
	for _, s := range lead.Enrichment.Sources {
		if s == name {
			return
		}
	}
	lead.Enrichment.Sources = append(lead.Enrichment.Sources, name)
}
