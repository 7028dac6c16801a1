// Package contact validates and extracts email addresses from free text.
//
// Addresses are normalised before validation: surrounding whitespace and
// angle brackets are removed, a mailto: prefix is dropped and the result
// is lower-cased. Platform-generated addresses (GitHub noreply and reply
// addresses) are rejected because they do not identify a person.
//
// # Example Usage
//
//	if email, ok := contact.Normalize(raw); ok && contact.IsAcceptable(email) {
//	    // use email
//	}
//
//	for _, email := range contact.ExtractSorted(user.Bio) {
//	    // every email is normalised and acceptable
//	}
package contact
