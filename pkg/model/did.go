package model

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

// DIDPrefix is the method prefix of Ocean document identifiers.
const DIDPrefix = "did:op:"

var didPattern = regexp.MustCompile(`^did:op:[0-9a-f]{64}$`)

// GenerateDID derives the document identifier of an asset from its data NFT
// address and chain id: sha256 over the checksummed address followed by the
// decimal chain id.
func GenerateDID(nftAddress common.Address, chainID *big.Int) string {
	sum := sha256.Sum256([]byte(nftAddress.Hex() + chainID.String()))
	return DIDPrefix + hex.EncodeToString(sum[:])
}

// IsDID reports whether s has the did:op:<64 hex> form.
func IsDID(s string) bool {
	return didPattern.MatchString(s)
}
