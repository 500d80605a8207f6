// Command controller uploads a local image to the shared bucket and submits a
// Kubernetes Job that runs filtermaker on it remotely.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	batchv1 "k8s.io/api/batch/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/SteeveDroz/filters/pkg/filter"
	"github.com/SteeveDroz/filters/pkg/kube"
	"github.com/SteeveDroz/filters/pkg/storage"
)

const synopsis = "controller [options] <image> [<filter1> [<filter2> [...]]]"

type options struct {
	kubeconfig string
	job        kube.JobConfig
	storage    storage.Config
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	var opts options
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "kubeconfig",
			Usage:       "path to kubeconfig (defaults to ~/.kube/config)",
			EnvVars:     []string{"KUBECONFIG"},
			Destination: &opts.kubeconfig,
		},
		&cli.StringFlag{
			Name:        "namespace",
			Value:       "default",
			Destination: &opts.job.Namespace,
		},
		&cli.StringFlag{
			Name:        "image",
			Usage:       "container image providing filtermaker",
			Value:       "ghcr.io/steevedroz/filtermaker:latest",
			EnvVars:     []string{"FILTERMAKER_IMAGE"},
			Destination: &opts.job.Image,
		},
		&cli.StringFlag{
			Name:        "credentials-secret",
			Usage:       fmt.Sprintf("Secret holding %q and %q for the bucket", kube.SecretAccessKey, kube.SecretSecretKey),
			Destination: &opts.job.CredentialsSecret,
		},
		&cli.StringFlag{
			Name:        "job-endpoint",
			Usage:       "S3 endpoint as seen from inside the cluster (defaults to --s3-endpoint)",
			Destination: &opts.job.Endpoint,
		},
		&cli.IntFlag{
			Name:  "backoff-limit",
			Value: 1,
		},
	}

	return &cli.App{
		Name:      "controller",
		Usage:     "run a filter chain on an image as a Kubernetes Job",
		UsageText: synopsis,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     append(flags, storage.Flags(&opts.storage)...),
		Before: func(c *cli.Context) error {
			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, nil)))
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("Syntax error, the correct syntax is: "+synopsis, 2)
			}
			if !opts.storage.Enabled() {
				return cli.Exit("--bucket is required", 2)
			}
			opts.job.BackoffLimit = int32(c.Int("backoff-limit"))

			api, err := storage.NewClient(c.Context, opts.storage)
			if err != nil {
				return cli.Exit(err, 1)
			}
			clientset, err := kube.NewClientset(opts.kubeconfig)
			if err != nil {
				return cli.Exit(err, 1)
			}
			_, err = submit(c.Context, opts, api, clientset, c.Args().First(), c.Args().Tail(), stdout, time.Now())
			return err
		},
	}
}

// submit publishes the source and creates the Job for it. Filter names are
// checked locally so mistakes show up before the Job runs; they are passed
// through unchanged.
func submit(ctx context.Context, opts options, api storage.API, clientset kubernetes.Interface,
	source string, names []string, stdout io.Writer, now time.Time) (*batchv1.Job, error) {
	_, warnings := filter.ResolveAll(names)
	for _, w := range warnings {
		fmt.Fprintln(stdout, w)
	}

	if _, err := os.Stat(source); err != nil {
		return nil, cli.Exit(fmt.Sprintf("The image can't be found: %v", err), 1)
	}
	key, err := storage.Upload(ctx, api, opts.storage, source)
	if err != nil {
		return nil, cli.Exit(err, 1)
	}

	cfg := opts.job
	cfg.Bucket = opts.storage.Bucket
	cfg.Prefix = opts.storage.Prefix
	cfg.Region = opts.storage.Region
	if cfg.Endpoint == "" {
		cfg.Endpoint = opts.storage.Endpoint
	}

	job := kube.FilterJob(kube.JobName(source, now), key, names, cfg)
	created, err := kube.Submit(ctx, clientset, job)
	if err != nil {
		return nil, cli.Exit(err, 1)
	}
	fmt.Fprintf(stdout, "Job %s created for %s\n", created.Name, key)
	return created, nil
}
