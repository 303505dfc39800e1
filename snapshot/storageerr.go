package snapshot

import (
	"fmt"

	azStorageBlob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const (
	azblobBlobAlreadyExists = "BlobAlreadyExists"
	azblobConditionNotMet   = "ConditionNotMet"
)

func asStorageError(err error) (azStorageBlob.StorageError, bool) {
	serr := &azStorageBlob.StorageError{}
	//nolint
	ierr, ok := err.(*azStorageBlob.InternalError)
	if ierr == nil || !ok {
		return azStorageBlob.StorageError{}, false
	}
	if !ierr.As(&serr) {
		return azStorageBlob.StorageError{}, false
	}
	return *serr, true
}

// wrapBlobExists translates the failure of a create only put to ErrExists.
// Other errors, including nil, are returned unchanged.
func wrapBlobExists(err error) error {
	if err == nil {
		return nil
	}
	serr, ok := asStorageError(err)
	if !ok || !isExistsError(serr) {
		return err
	}
	return fmt.Errorf("%s: %w", err.Error(), ErrExists)
}

// isExistsError reports whether serr is the service's answer to a put that
// carried If-None-Match: * for a blob that is already present.
func isExistsError(serr azStorageBlob.StorageError) bool {
	return serr.ErrorCode == azblobBlobAlreadyExists || serr.ErrorCode == azblobConditionNotMet
}
