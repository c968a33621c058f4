package services

import (
	"github.com/Prince5598/Cloud-Storage/blobstore"
	"github.com/Prince5598/Cloud-Storage/config"
	"github.com/Prince5598/Cloud-Storage/repositories"
)

type Container struct {
	Auth      AuthService
	File      FileService
	Lifecycle LifecycleService
	Cleanup   CleanupService
}

// NewContainer wires services over the repositories and blob store. tokens
// may be nil when sessions come from an external identity provider.
func NewContainer(repos repositories.Container, store blobstore.Store, tokens TokenIssuer, lifecycle config.LifecycleConfig) *Container {
	return &Container{
		Auth:      NewAuthService(repos.TxManager, repos.Users, tokens),
		File:      NewFileService(repos.TxManager, repos.Files, store, repos.Orphans),
		Lifecycle: NewLifecycleService(repos.TxManager, repos.Files, store, repos.Orphans, lifecycle.BlobDeleteConcurrency),
		Cleanup:   NewCleanupService(store, repos.Orphans, lifecycle.OrphanBatchSize, lifecycle.OrphanMaxAttempts),
	}
}
