package k8s

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/scanner-research/scanner-gke/internal/log"
)

// ManifestFactory renders the object to create. It is only called when the
// object is absent.
type ManifestFactory func() (runtime.Object, error)

// GetObjects returns the set of objects of kind that currently exist.
func (c *Client) GetObjects(ctx context.Context, kind Kind) (map[ObjectRef]struct{}, error) {
	list, err := c.list(ctx, kind)
	if err != nil {
		return nil, err
	}

	objects := make(map[ObjectRef]struct{}, len(list.Items))
	for _, item := range list.Items {
		objects[ObjectRef{Kind: kind, Name: item.GetName()}] = struct{}{}
	}
	return objects, nil
}

// EnsureExists creates the object from factory unless one with the same kind
// and name already exists. It reports whether the object was created.
//
// A failed create is returned as is and never retried: kubectl may have
// applied part of the manifest.
func (c *Client) EnsureExists(ctx context.Context, ref ObjectRef, factory ManifestFactory) (bool, error) {
	existing, err := c.GetObjects(ctx, ref.Kind)
	if err != nil {
		return false, err
	}
	if _, ok := existing[ref]; ok {
		log.Debugf("%s already exists", ref)
		return false, nil
	}

	obj, err := factory()
	if err != nil {
		return false, fmt.Errorf("failed to render %s: %w", ref, err)
	}
	manifest, err := yaml.Marshal(obj)
	if err != nil {
		return false, fmt.Errorf("failed to serialize %s: %w", ref, err)
	}

	path, err := c.stage(manifest)
	if err != nil {
		return false, err
	}
	defer func() {
		if rmErr := c.fs.Remove(path); rmErr != nil {
			log.Warnf("failed to remove manifest %s: %v", path, rmErr)
		}
	}()

	log.Infof("Creating %s", ref)
	if err := c.kubectl.Run(ctx, "create", "-f", path); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", ref, err)
	}

	c.metrics.ObjectCreated(string(ref.Kind))
	return true, nil
}

// stage writes manifest to a new temporary file and returns its path.
func (c *Client) stage(manifest []byte) (string, error) {
	f, err := afero.TempFile(c.fs, "", "scanner-gke-*.yaml")
	if err != nil {
		return "", fmt.Errorf("failed to create manifest file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(manifest); err != nil {
		_ = f.Close()
		_ = c.fs.Remove(path)
		return "", fmt.Errorf("failed to write manifest file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = c.fs.Remove(path)
		return "", fmt.Errorf("failed to write manifest file: %w", err)
	}
	return path, nil
}
