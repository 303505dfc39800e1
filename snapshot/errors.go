package snapshot

import "errors"

var (
	ErrExists           = errors.New("snapshot: object already exists")
	ErrNotFound         = errors.New("snapshot: object not found")
	ErrDigestMismatch   = errors.New("snapshot: file digest does not match the manifest")
	ErrManifestMismatch = errors.New("snapshot: manifest does not describe the files")
	ErrSealVerifyFailed = errors.New("snapshot: the manifest seal verification failed")
	ErrSealMissing      = errors.New("snapshot: a public key was provided but no seal was found")
)
