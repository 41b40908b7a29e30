package storage

import (
	"context"
	"io"
	"regexp"
	"strings"
)

// IpfsPrefix is the URI scheme prefix recognized for IPFS content.
const IpfsPrefix = "ipfs://"

// Storage is a minimal interface for backends able to fetch and store blobs by CID.
type Storage interface {
	UploadFile(ctx context.Context, r io.Reader) (string, error)
	ReadFile(ctx context.Context, hash string) ([]byte, error)
}

var specialCharacters = regexp.MustCompile("[^a-zA-Z0-9=]")

// formatHash removes the ipfs:// prefix and any non-alphanumeric characters
// (except '=') from the supplied hash/URI to produce a clean CID string.
func formatHash(hash string) string {
	hash = strings.ReplaceAll(hash, IpfsPrefix, "")
	return removeSpecialCharacters(hash)
}

// removeSpecialCharacters strips all characters except ASCII letters, digits,
// and '=' from pString.
func removeSpecialCharacters(pString string) string {
	return specialCharacters.ReplaceAllString(pString, "")
}
