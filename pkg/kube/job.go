// Package kube runs the filter tool remotely as a Kubernetes Job that reads
// its source from, and writes its result to, the shared bucket.
package kube

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	meta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/retry"
)

const (
	appLabel      = "filtermaker"
	namePrefix    = "filter-"
	maxNameLen    = 63
	containerName = "filtermaker"

	// Keys expected inside the credentials Secret.
	SecretAccessKey = "accessKey"
	SecretSecretKey = "secretKey"
)

var invalidName = regexp.MustCompile(`[^a-z0-9-]`)

// JobConfig describes where the Job runs and which bucket it talks to.
type JobConfig struct {
	Namespace         string
	Image             string
	Bucket            string
	Prefix            string
	Endpoint          string
	Region            string
	CredentialsSecret string
	BackoffLimit      int32
}

func int32Ptr(i int32) *int32 { return &i }

// JobName derives a unique, DNS-safe Job name from a source path.
func JobName(source string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	sanitized := strings.Trim(invalidName.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if sanitized == "" {
		sanitized = "image"
	}

	suffix := fmt.Sprintf("-%d", now.UnixNano())
	if room := maxNameLen - len(namePrefix) - len(suffix); len(sanitized) > room {
		sanitized = strings.TrimRight(sanitized[:room], "-")
	}
	return namePrefix + sanitized + suffix
}

// FilterJob builds a Job that fetches key from the bucket, applies filters
// in order and uploads the result next to it.
func FilterJob(name, key string, filters []string, cfg JobConfig) *batchv1.Job {
	args := []string{"--fetch", "--bucket", cfg.Bucket}
	if cfg.Prefix != "" {
		args = append(args, "--prefix", cfg.Prefix)
	}
	args = append(args, key)
	args = append(args, filters...)

	env := []corev1.EnvVar{
		{Name: "FILTERMAKER_S3_ENDPOINT", Value: cfg.Endpoint},
		{Name: "AWS_REGION", Value: cfg.Region},
	}
	if cfg.CredentialsSecret != "" {
		env = append(env,
			secretEnv("AWS_ACCESS_KEY_ID", cfg.CredentialsSecret, SecretAccessKey),
			secretEnv("AWS_SECRET_ACCESS_KEY", cfg.CredentialsSecret, SecretSecretKey),
		)
	}

	return &batchv1.Job{
		ObjectMeta: meta.ObjectMeta{
			Name:      name,
			Namespace: cfg.Namespace,
			Labels:    map[string]string{"app": appLabel},
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: int32Ptr(cfg.BackoffLimit),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: meta.ObjectMeta{
					Labels: map[string]string{"job-name": name, "app": appLabel},
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{{
						Name:       containerName,
						Image:      cfg.Image,
						Args:       args,
						Env:        env,
						WorkingDir: "/work",
						VolumeMounts: []corev1.VolumeMount{{
							Name:      "work",
							MountPath: "/work",
						}},
					}},
					Volumes: []corev1.Volume{{
						Name: "work",
						VolumeSource: corev1.VolumeSource{
							EmptyDir: &corev1.EmptyDirVolumeSource{},
						},
					}},
				},
			},
		},
	}
}

func secretEnv(name, secret, key string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: name,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: secret},
				Key:                  key,
			},
		},
	}
}

// NewClientset loads kubeconfig, or the default home kubeconfig when empty.
func NewClientset(kubeconfig string) (*kubernetes.Clientset, error) {
	if kubeconfig == "" {
		kubeconfig = clientcmd.RecommendedHomeFile
	}
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building clientset: %w", err)
	}
	return clientset, nil
}

// Submit creates job, retrying on conflicts.
func Submit(ctx context.Context, clientset kubernetes.Interface, job *batchv1.Job) (*batchv1.Job, error) {
	var created *batchv1.Job
	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		var err error
		created, err = clientset.BatchV1().Jobs(job.Namespace).Create(ctx, job, meta.CreateOptions{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating job %s: %w", job.Name, err)
	}
	slog.Info("job created", "job", created.Name, "namespace", created.Namespace)
	return created, nil
}
