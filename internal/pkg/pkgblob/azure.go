package pkgblob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/shandysiswandi/goeda/internal/pkg/pkgerror"
)

// Azure stores objects in one Azure Blob Storage container.
type Azure struct {
	client    *azblob.Client
	container string
}

// NewAzure uses shared-key authentication for accountName.
func NewAzure(accountName, accountKey, container string) (*Azure, error) {
	if accountName == "" || accountKey == "" {
		return nil, errors.New("pkgblob: azure driver requires account name and key")
	}
	if container == "" {
		return nil, errors.New("pkgblob: azure driver requires a container")
	}

	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("pkgblob: create shared key credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("pkgblob: create azure blob client: %w", err)
	}

	return &Azure{client: client, container: container}, nil
}

func (a *Azure) Put(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if _, err := a.client.UploadBuffer(ctx, a.container, key, data, nil); err != nil {
		return fmt.Errorf("pkgblob: azure upload %s: %w", key, err)
	}

	return nil
}

func (a *Azure) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return nil, pkgerror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pkgblob: azure download %s: %w", key, err)
	}

	return resp.Body, nil
}

func (a *Azure) Close() error {
	return nil
}
