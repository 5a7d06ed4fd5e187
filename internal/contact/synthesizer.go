package contact

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// verification method tags recorded on candidates.
const (
	methodPatternMatch = "pattern-match"
	methodTemplate     = "template"
)

// Synthesizer generates ranked email candidates for people at a domain.
type Synthesizer struct {
	mx MXResolver
}

// NewSynthesizer creates a Synthesizer using the given MX resolver.
func NewSynthesizer(mx MXResolver) *Synthesizer {
	return &Synthesizer{mx: mx}
}

// Guess synthesizes candidate addresses for a person at a domain, ranked
// by confidence. knownEmails are real observed addresses at the domain and
// knownPeople the people they might belong to; together they drive
// convention detection. A domain with no mail exchange yields no
// candidates at all.
func (s *Synthesizer) Guess(ctx context.Context, person model.Person, domain string, knownEmails []string, knownPeople []model.Person) ([]model.EmailCandidate, error) {
	domain = model.DomainOf(domain)
	if domain == "" || person.FirstName == "" {
		return nil, nil
	}

	exists, _, err := s.mx.LookupMX(ctx, domain)
	if err != nil {
		// Resolver trouble is indistinguishable from a dead domain for
		// ranking purposes; synthesizing unmailable guesses helps nobody.
		zap.L().Warn("contact: mx lookup failed", zap.String("domain", domain), zap.Error(err))
		return nil, err
	}
	if !exists {
		zap.L().Debug("contact: no mail exchange, skipping synthesis", zap.String("domain", domain))
		return nil, nil
	}

	if convention := DetectConvention(domain, knownEmails, knownPeople); convention != nil {
		if addr := convention.Apply(person.FirstName, person.LastName); addr != "" {
			return []model.EmailCandidate{{
				Address:            address(addr, domain),
				Role:               model.EmailRolePersonal,
				Source:             model.SourceInference,
				Confidence:         model.ConfidenceHigh,
				VerificationMethod: methodPatternMatch,
				PersonName:         person.Name,
			}}, nil
		}
	}

	return s.generateAll(person, domain), nil
}

// generateAll produces one candidate per applicable template plus the
// generic role prefixes, deduplicated, sorted by confidence with
// generation order as the tie-break.
func (s *Synthesizer) generateAll(person model.Person, domain string) []model.EmailCandidate {
	seen := make(map[string]bool)
	var out []model.EmailCandidate

	for _, tmpl := range Templates {
		local := tmpl.Apply(person.FirstName, person.LastName)
		if local == "" {
			continue
		}
		addr := address(local, domain)
		if seen[addr] {
			continue
		}
		seen[addr] = true

		confidence := model.ConfidenceLow
		if tmpl.Common {
			confidence = model.ConfidenceMedium
		}
		out = append(out, model.EmailCandidate{
			Address:            addr,
			Role:               model.EmailRolePersonal,
			Source:             model.SourceInference,
			Confidence:         confidence,
			VerificationMethod: methodTemplate,
			PersonName:         person.Name,
		})
	}

	for _, prefix := range GenericPrefixes {
		addr := address(prefix, domain)
		if seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, model.EmailCandidate{
			Address:            addr,
			Role:               model.EmailRoleGeneric,
			Source:             model.SourceInference,
			Confidence:         model.ConfidenceMedium,
			VerificationMethod: methodTemplate,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// DetectConvention tests every known address at the domain against every
// known person under the fixed template order. The first template that
// reproduces an observed address for a known person is the domain's
// convention.
func DetectConvention(domain string, knownEmails []string, knownPeople []model.Person) *Template {
	if len(knownEmails) == 0 || len(knownPeople) == 0 {
		return nil
	}

	locals := make(map[string]bool)
	for _, email := range knownEmails {
		local, emailDomain, ok := strings.Cut(model.NormalizeEmail(email), "@")
		if !ok || model.DomainOf(emailDomain) != domain {
			continue
		}
		locals[local] = true
	}
	if len(locals) == 0 {
		return nil
	}

	for i := range Templates {
		for _, person := range knownPeople {
			local := Templates[i].Apply(person.FirstName, person.LastName)
			if local != "" && locals[local] {
				zap.L().Debug("contact: detected naming convention",
					zap.String("domain", domain),
					zap.String("template", Templates[i].Name),
				)
				return &Templates[i]
			}
		}
	}
	return nil
}
