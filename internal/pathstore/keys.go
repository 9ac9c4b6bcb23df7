package pathstore

import (
	"strings"
)

// The store addresses nodes by dotted key paths, so clause numbers are
// stored with their dots replaced.

// DocumentPrefix is the key under which a document's nodes live.
func DocumentPrefix(prefix, docID string) string {
	return prefix + "/documents/" + docID
}

// ClauseKey is the node key of one clause.
func ClauseKey(prefix, docID, number string) string {
	return DocumentPrefix(prefix, docID) + "/clauses/" + EncodeClauseNumber(number)
}

// HashKey is the dedup index entry for a document's content hash.
func HashKey(prefix, hash, docID string) string {
	return HashPrefix(prefix, hash) + "/" + docID
}

// HashPrefix holds every document indexed under hash.
func HashPrefix(prefix, hash string) string {
	return prefix + "/documents/by_hash/" + hash
}

// EncodeClauseNumber turns "3.5.17" into "3-5-17".
func EncodeClauseNumber(number string) string {
	return strings.ReplaceAll(number, ".", "-")
}

// DecodeClauseNumber reverses EncodeClauseNumber.
func DecodeClauseNumber(segment string) string {
	return strings.ReplaceAll(segment, "-", ".")
}

// LastSegment returns the final component of a key as reported by the
// store, which joins components with dots.
func LastSegment(key string) string {
	if i := strings.LastIndexAny(key, "./"); i >= 0 {
		return key[i+1:]
	}
	return key
}
