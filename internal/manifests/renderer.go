// Package manifests renders the Kubernetes objects of a Scanner deployment:
// the two credential secrets, the master and worker deployments and the
// master service.
package manifests

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/afero"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/k8s"
	"github.com/scanner-research/scanner-gke/internal/platform/aws"
	"github.com/scanner-research/scanner-gke/internal/util/labels"
)

// Scanner roles. The container image tag and container name are the role.
const (
	RoleMaster = "master"
	RoleWorker = "worker"
)

const (
	nodePoolLabel = "cloud.google.com/gke-nodepool"

	googleKeyFile   = "google-key.json"
	secretMountPath = "/secret"

	envAccessKeyID     = "AWS_ACCESS_KEY_ID"
	envSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envSessionToken    = "AWS_SESSION_TOKEN"
)

// CredentialsFunc loads the storage key pair for the aws-storage-key secret.
type CredentialsFunc func(ctx context.Context) (aws.Credentials, error)

// Renderer builds typed manifests from the cluster configuration.
type Renderer struct {
	cfg         *config.Config
	fs          afero.Fs
	credentials CredentialsFunc
}

// NewRenderer creates a Renderer. The google key file is read from fs.
func NewRenderer(cfg *config.Config, fs afero.Fs, credentials CredentialsFunc) *Renderer {
	return &Renderer{cfg: cfg, fs: fs, credentials: credentials}
}

// Factory adapts Render to the reconciler's factory signature.
func (r *Renderer) Factory(ctx context.Context, ref k8s.ObjectRef) k8s.ManifestFactory {
	return func() (runtime.Object, error) {
		return r.Render(ctx, ref.Kind, ref.Name)
	}
}

// Render returns the object named name of kind.
func (r *Renderer) Render(ctx context.Context, kind k8s.Kind, name string) (runtime.Object, error) {
	switch {
	case kind == k8s.KindSecret && name == config.GoogleKeySecret:
		return r.googleKeySecret()
	case kind == k8s.KindSecret && name == config.StorageKeySecret:
		return r.storageKeySecret(ctx)
	case kind == k8s.KindDeployment && name == config.MasterDeployment:
		return r.deployment(RoleMaster), nil
	case kind == k8s.KindDeployment && name == config.WorkerDeployment:
		return r.deployment(RoleWorker), nil
	case kind == k8s.KindService && name == config.MasterService:
		return r.masterService(), nil
	default:
		return nil, fmt.Errorf("no manifest for %s/%s", kind, name)
	}
}

func (r *Renderer) googleKeySecret() (*corev1.Secret, error) {
	key, err := afero.ReadFile(r.fs, r.cfg.GoogleKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read google key file: %w", err)
	}
	return &corev1.Secret{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{Name: config.GoogleKeySecret},
		Type:       corev1.SecretTypeOpaque,
		Data:       map[string][]byte{googleKeyFile: key},
	}, nil
}

func (r *Renderer) storageKeySecret(ctx context.Context) (*corev1.Secret, error) {
	creds, err := r.credentials(ctx)
	if err != nil {
		return nil, err
	}
	data := map[string][]byte{
		envAccessKeyID:     []byte(creds.AccessKeyID),
		envSecretAccessKey: []byte(creds.SecretAccessKey),
	}
	if creds.SessionToken != "" {
		data[envSessionToken] = []byte(creds.SessionToken)
	}
	return &corev1.Secret{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{Name: config.StorageKeySecret},
		Type:       corev1.SecretTypeOpaque,
		Data:       data,
	}, nil
}

func (r *Renderer) deployment(role string) *appsv1.Deployment {
	name, pool, cpu, replicas := config.WorkerDeployment, config.WorkerPool, r.cfg.Workers.CPU, r.cfg.WorkerReplicas
	if role == RoleMaster {
		name, pool, cpu, replicas = config.MasterDeployment, config.MasterPool, r.cfg.Master.CPU, 1
	}
	selector := labels.Selector(role)

	return &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{Name: name, Labels: r.objectLabels(role)},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: selector},
				Spec: corev1.PodSpec{
					NodeSelector: map[string]string{nodePoolLabel: pool},
					Containers:   []corev1.Container{r.container(role, cpu)},
					Volumes: []corev1.Volume{{
						Name: config.GoogleKeySecret,
						VolumeSource: corev1.VolumeSource{
							Secret: &corev1.SecretVolumeSource{
								SecretName: config.GoogleKeySecret,
								Items:      []corev1.KeyToPath{{Key: googleKeyFile, Path: googleKeyFile}},
							},
						},
					}},
				},
			},
		},
	}
}

func (r *Renderer) container(role, cpu string) corev1.Container {
	c := corev1.Container{
		Name:            role,
		Image:           r.cfg.Image(role),
		ImagePullPolicy: corev1.PullAlways,
		VolumeMounts: []corev1.VolumeMount{{
			Name:      config.GoogleKeySecret,
			MountPath: secretMountPath,
		}},
		Env: []corev1.EnvVar{
			{Name: "GOOGLE_APPLICATION_CREDENTIALS", Value: path.Join(secretMountPath, googleKeyFile)},
			secretEnv(envAccessKeyID),
			secretEnv(envSecretAccessKey),
			optionalSecretEnv(envSessionToken),
		},
		Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{corev1.ResourceCPU: resource.MustParse(cpu)},
		},
	}
	if role == RoleMaster {
		c.Ports = []corev1.ContainerPort{{ContainerPort: int32(r.cfg.Bridge.MasterPort)}}
	}
	return c
}

func secretEnv(key string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: key,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: config.StorageKeySecret},
				Key:                  key,
			},
		},
	}
}

// optionalSecretEnv references a key the secret only carries for temporary
// credentials.
func optionalSecretEnv(key string) corev1.EnvVar {
	env := secretEnv(key)
	optional := true
	env.ValueFrom.SecretKeyRef.Optional = &optional
	return env
}

func (r *Renderer) masterService() *corev1.Service {
	port := int32(r.cfg.Bridge.MasterPort)
	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{Name: config.MasterService, Labels: r.objectLabels(RoleMaster)},
		Spec: corev1.ServiceSpec{
			Selector: labels.Selector(RoleMaster),
			Ports: []corev1.ServicePort{{
				Port:       port,
				TargetPort: intstr.FromInt32(port),
			}},
		},
	}
}

func (r *Renderer) objectLabels(role string) map[string]string {
	return labels.NewLabelBuilder().WithRole(role).WithCluster(r.cfg.ClusterID).WithManagedBy().Build()
}
