// Where: internal/engine/docker.go
// What: Docker SDK helpers for matforge-managed images.
// Why: Provide scoped queries and cleanup for images this tool built.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/matforge/matforge/internal/meta"
)

const (
	ManagedLabel     = meta.LabelPrefix + ".managed"
	ReleaseLabel     = meta.LabelPrefix + ".release"
	ProductsLabel    = meta.LabelPrefix + ".products"
	FingerprintLabel = meta.LabelPrefix + ".fingerprint"
)

// DockerClient defines the subset of Docker SDK methods used by this package.
// This interface enables mocking the Docker client in tests.
type DockerClient interface {
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImageRemove(ctx context.Context, imageID string, options image.RemoveOptions) ([]image.DeleteResponse, error)
}

// ImageInfo holds information about a matforge-managed image.
type ImageInfo struct {
	ID          string
	Tags        []string
	Release     string
	Fingerprint string
}

// ListManagedImages returns every image carrying the matforge managed label.
func ListManagedImages(ctx context.Context, client DockerClient) ([]ImageInfo, error) {
	labelFilter := filters.NewArgs()
	labelFilter.Add("label", fmt.Sprintf("%s=true", ManagedLabel))

	images, err := client.ImageList(ctx, image.ListOptions{
		All:     true,
		Filters: labelFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	result := make([]ImageInfo, 0, len(images))
	for _, img := range images {
		info := ImageInfo{
			ID:   img.ID,
			Tags: img.RepoTags,
		}
		if img.Labels != nil {
			info.Release = img.Labels[ReleaseLabel]
			info.Fingerprint = img.Labels[FingerprintLabel]
		}
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// RemoveManagedImages deletes every matforge-managed image and returns the
// IDs that were removed.
func RemoveManagedImages(ctx context.Context, client DockerClient) ([]string, error) {
	images, err := ListManagedImages(ctx, client)
	if err != nil {
		return nil, err
	}
	removed := make([]string, 0, len(images))
	for _, img := range images {
		if _, err := client.ImageRemove(ctx, img.ID, image.RemoveOptions{Force: true, PruneChildren: true}); err != nil {
			return removed, fmt.Errorf("remove image %s: %w", img.ID, err)
		}
		removed = append(removed, img.ID)
	}
	return removed, nil
}
