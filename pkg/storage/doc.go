// Package storage stores asset files on IPFS.
//
// When an IPFS API endpoint is configured, a local dataset or algorithm file
// can be added to IPFS and published as an ipfs file object instead of a URL:
//
//	s, err := storage.NewStorage("http://127.0.0.1:5001", 30*time.Second)
//	if err != nil {
//		return err
//	}
//	id, err := s.UploadFile(ctx, f)
//	files := model.NewIPFSFiles(id)
//
// ReadFile reads content back by CID; an ipfs:// prefix is accepted.
package storage
