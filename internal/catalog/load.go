package catalog

import (
	"context"
	"fmt"
	"os"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/yaml"

	"github.com/bayleafwalker/starter-core/api/v1alpha1"
)

// DefaultConfigMapKey is the ConfigMap data key holding the catalog document.
const DefaultConfigMapKey = "catalog.yaml"

// Parse decodes a YAML or JSON catalog document. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var spec v1alpha1.CatalogSpec
	if err := yaml.UnmarshalStrict(data, &spec); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(spec)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadConfigMap reads the catalog document stored under dataKey of the given
// ConfigMap. BinaryData is consulted when Data has no such key.
func LoadConfigMap(ctx context.Context, r client.Reader, key types.NamespacedName, dataKey string) (*Catalog, error) {
	if dataKey == "" {
		dataKey = DefaultConfigMapKey
	}

	var cm corev1.ConfigMap
	if err := r.Get(ctx, key, &cm); err != nil {
		return nil, fmt.Errorf("catalog: get configmap %s: %w", key, err)
	}

	var data []byte
	if s, ok := cm.Data[dataKey]; ok {
		data = []byte(s)
	} else if b, ok := cm.BinaryData[dataKey]; ok {
		data = b
	} else {
		return nil, fmt.Errorf("catalog: configmap %s has no key %q", key, dataKey)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("configmap %s: %w", key, err)
	}
	return c, nil
}
