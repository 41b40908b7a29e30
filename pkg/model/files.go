package model

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
)

// File object types understood by the Provider.
const (
	FileTypeURL  = "url"
	FileTypeIPFS = "ipfs"
)

// Files is the plaintext file descriptor of an asset. It is scoped to the
// asset's NFT and datatoken and is only ever sent to the Provider's encrypt
// endpoint.
type Files struct {
	DatatokenAddress string       `json:"datatokenAddress"`
	NftAddress       string       `json:"nftAddress"`
	Files            []FileObject `json:"files"`
}

// FileObject is a single raw location. URL objects use URL and Method, IPFS
// objects use Hash.
type FileObject struct {
	Type    string            `json:"type"`
	URL     string            `json:"url,omitempty"`
	Method  string            `json:"method,omitempty"`
	Hash    string            `json:"hash,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// NewURLFiles returns a descriptor for a single HTTP GET location.
func NewURLFiles(url string) *Files {
	return &Files{
		DatatokenAddress: "0x0",
		NftAddress:       "0x0",
		Files:            []FileObject{{Type: FileTypeURL, URL: url, Method: "GET"}},
	}
}

// NewIPFSFiles returns a descriptor for a single IPFS object.
func NewIPFSFiles(hash string) *Files {
	return &Files{
		DatatokenAddress: "0x0",
		NftAddress:       "0x0",
		Files:            []FileObject{{Type: FileTypeIPFS, Hash: hash}},
	}
}

// Validate checks that every file object is well formed.
func (f *Files) Validate() error {
	if len(f.Files) == 0 {
		return errors.New("no files in descriptor")
	}
	for i, o := range f.Files {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("file %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks the fields required by the object's type.
func (o FileObject) Validate() error {
	switch o.Type {
	case FileTypeURL:
		if o.URL == "" {
			return errors.New("url file without url")
		}
	case FileTypeIPFS:
		if _, err := cid.Decode(o.Hash); err != nil {
			return fmt.Errorf("invalid ipfs hash %q: %w", o.Hash, err)
		}
	default:
		return fmt.Errorf("unsupported file type %q", o.Type)
	}
	return nil
}
