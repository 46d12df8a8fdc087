package k8s

import (
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
)

// CurrentContext returns the current context of the kubeconfig at path, or
// of the default kubeconfig chain ($KUBECONFIG, ~/.kube/config) when path is
// empty.
func CurrentContext(path string) (string, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		rules.ExplicitPath = path
	}

	raw, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).RawConfig()
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return raw.CurrentContext, nil
}

// VerifyContext fails unless the current kubeconfig context is want. kubectl
// always targets the current context, so a mismatch would reconcile objects
// into the wrong cluster.
func VerifyContext(path, want string) error {
	current, err := CurrentContext(path)
	if err != nil {
		return err
	}
	if current != want {
		return fmt.Errorf("kubectl context is %q, expected %q", current, want)
	}
	return nil
}
