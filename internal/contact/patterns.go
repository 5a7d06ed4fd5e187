// Package contact synthesizes and ranks plausible email addresses for a
// person at a domain. Detecting a real naming convention from even one
// observed address beats guessing blind, and gating on mail-exchange
// existence avoids spending verification effort on dead domains.
package contact

import (
	"fmt"
	"strings"
)

// Template is one local-part naming pattern, e.g. "first.last".
type Template struct {
	Name      string
	NeedsLast bool
	// Common templates get medium confidence even without a detected
	// convention; the rest rank low.
	Common bool
	apply  func(first, last string) string
}

// Apply renders the template for a person, or "" when the required name
// parts are missing.
func (t Template) Apply(first, last string) string {
	first = strings.ToLower(strings.TrimSpace(first))
	last = strings.ToLower(strings.TrimSpace(last))
	if first == "" {
		return ""
	}
	if t.NeedsLast && last == "" {
		return ""
	}
	return t.apply(first, last)
}

// Templates is the fixed ordered list tried for both convention detection
// and candidate generation. Order matters: detection takes the first
// template that reproduces an observed address, and generation order is
// the tie-break within a confidence tier.
var Templates = []Template{
	{Name: "first.last", NeedsLast: true, Common: true, apply: func(f, l string) string { return f + "." + l }},
	{Name: "first", Common: true, apply: func(f, _ string) string { return f }},
	{Name: "firstlast", NeedsLast: true, Common: true, apply: func(f, l string) string { return f + l }},
	{Name: "f.last", NeedsLast: true, Common: true, apply: func(f, l string) string { return f[:1] + "." + l }},
	{Name: "flast", NeedsLast: true, Common: true, apply: func(f, l string) string { return f[:1] + l }},
	{Name: "last", NeedsLast: true, apply: func(_, l string) string { return l }},
	{Name: "first.l", NeedsLast: true, apply: func(f, l string) string { return f + "." + l[:1] }},
	{Name: "last.first", NeedsLast: true, apply: func(f, l string) string { return l + "." + f }},
	{Name: "lastfirst", NeedsLast: true, apply: func(f, l string) string { return l + f }},
	{Name: "first_last", NeedsLast: true, apply: func(f, l string) string { return f + "_" + l }},
	{Name: "first-last", NeedsLast: true, apply: func(f, l string) string { return f + "-" + l }},
	{Name: "fl", NeedsLast: true, apply: func(f, l string) string { return f[:1] + l[:1] }},
}

// GenericPrefixes are role-based local parts generated alongside the
// person-derived templates.
var GenericPrefixes = []string{
	"info", "sales", "admin", "contact", "enquiries", "office", "hello", "support",
}

// TemplateByName returns the named template, or nil.
func TemplateByName(name string) *Template {
	for i := range Templates {
		if Templates[i].Name == name {
			return &Templates[i]
		}
	}
	return nil
}

// address joins a local part and domain.
func address(local, domain string) string {
	return fmt.Sprintf("%s@%s", local, strings.ToLower(strings.TrimSpace(domain)))
}
