package archive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fjacquet/fincat/internal/logging"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureArchiver writes blobs to one Azure Storage container.
type AzureArchiver struct {
	client    *azblob.Client
	container string
	logger    logging.Logger
}

// NewAzureArchiverFromConnectionString authenticates with an account
// connection string, which also covers Azurite.
func NewAzureArchiverFromConnectionString(connectionString, container string, logger logging.Logger) (*AzureArchiver, error) {
	if container == "" {
		return nil, fmt.Errorf("azure archive: container is required")
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &AzureArchiver{client: client, container: container, logger: logging.OrDefault(logger)}, nil
}

// NewAzureArchiverWithDefaultCredential authenticates against accountURL with
// the default Azure credential chain.
func NewAzureArchiverWithDefaultCredential(accountURL, container string, logger logging.Logger) (*AzureArchiver, error) {
	if container == "" || accountURL == "" {
		return nil, fmt.Errorf("azure archive: container and account URL are required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create default azure credential: %w", err)
	}
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &AzureArchiver{client: client, container: container, logger: logging.OrDefault(logger)}, nil
}

func (a *AzureArchiver) Name() string { return "azure" }

// Archive uploads r as a block blob.
func (a *AzureArchiver) Archive(ctx context.Context, key string, r io.Reader) (string, error) {
	if _, err := a.client.UploadStream(ctx, a.container, key, r, nil); err != nil {
		return "", fmt.Errorf("upload blob: %w", err)
	}
	return strings.TrimSuffix(a.client.URL(), "/") + "/" + a.container + "/" + key, nil
}

// Close is a no-op; the blob client holds no resources.
func (a *AzureArchiver) Close() error { return nil }
