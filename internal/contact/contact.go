package contact

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// MaxLocalLength is the longest accepted local part.
	MaxLocalLength = 64

	// MaxDomainLength is the longest accepted domain part.
	MaxDomainLength = 255

	mailtoPrefix = "mailto:"
)

// addressRegex finds candidate addresses in free text.
var addressRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// shapeRegex matches a whole normalised address.
var shapeRegex = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// noreplyPatterns match addresses generated by GitHub itself.
var noreplyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^.*@users\.noreply\.github\.com`),
	regexp.MustCompile(`(?i)^.*noreply@github\.com`),
	regexp.MustCompile(`(?i)^.*@reply\.github\.com`),
}

// Normalize trims whitespace, lower-cases, strips angle brackets and a
// leading mailto: scheme. A "mailto:" anywhere else is left in place, so
// the result fails IsAcceptable rather than turning into a different
// address. It returns false when nothing is left.
func Normalize(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, "<>")
	s = strings.TrimPrefix(s, mailtoPrefix)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// IsNoreply reports whether email is a platform-generated address.
func IsNoreply(email string) bool {
	for _, p := range noreplyPatterns {
		if p.MatchString(email) {
			return true
		}
	}
	return false
}

// IsAcceptable reports whether a normalised address identifies a person.
func IsAcceptable(email string) bool {
	if email == "" || IsNoreply(email) {
		return false
	}
	if !shapeRegex.MatchString(strings.ToLower(email)) {
		return false
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return len(local) <= MaxLocalLength && len(domain) <= MaxDomainLength
}

// Accept normalises raw and validates it in one step.
func Accept(raw string) (string, bool) {
	email, ok := Normalize(raw)
	if !ok || !IsAcceptable(email) {
		return "", false
	}
	return email, true
}

// Extract returns the set of acceptable addresses found in text.
func Extract(text string) map[string]struct{} {
	found := make(map[string]struct{})
	if text == "" {
		return found
	}
	for _, match := range addressRegex.FindAllString(text, -1) {
		if email, ok := Accept(match); ok {
			found[email] = struct{}{}
		}
	}
	return found
}

// ExtractSorted returns Extract's set in lexical order, so callers that
// emit findings from it behave the same on every run.
func ExtractSorted(text string) []string {
	set := Extract(text)
	emails := make([]string, 0, len(set))
	for email := range set {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails
}
