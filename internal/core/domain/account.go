package domain

import "strings"

// ShortSHALength is the number of characters kept from a commit SHA.
const ShortSHALength = 8

// Account is a public GitHub profile. It is fetched once per harvest
// and never modified afterwards.
type Account struct {
	Login    string
	Name     string
	Location string
	Bio      string
	Blog     string
	Email    string
}

// DisplayName returns the profile name, falling back to the login.
func (a *Account) DisplayName() string {
	if a == nil {
		return ""
	}
	if a.Name != "" {
		return a.Name
	}
	return a.Login
}

// Repository is a repository listed for an account.
type Repository struct {
	Owner    string
	Name     string
	Homepage string
	Fork     bool
}

// FullName returns "owner/name".
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// OwnedBy reports whether login owns the repository (case-insensitive).
func (r Repository) OwnedBy(login string) bool {
	return strings.EqualFold(r.Owner, login)
}

// Identity is the author or committer recorded on a commit.
// Login is the linked account, empty when GitHub could not link one.
type Identity struct {
	Name  string
	Email string
	Login string
}

// Is reports whether the identity is linked to login (case-insensitive).
func (i Identity) Is(login string) bool {
	return i.Login != "" && strings.EqualFold(i.Login, login)
}

// Commit belongs to exactly one repository.
type Commit struct {
	SHA       string
	Author    Identity
	Committer Identity
}

// ShortSHA returns the SHA truncated to ShortSHALength.
func (c Commit) ShortSHA() string {
	if len(c.SHA) <= ShortSHALength {
		return c.SHA
	}
	return c.SHA[:ShortSHALength]
}
