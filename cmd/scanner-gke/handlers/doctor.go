package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2/google"
	container "google.golang.org/api/container/v1"

	"github.com/scanner-research/scanner-gke/internal/config"
	"github.com/scanner-research/scanner-gke/internal/k8s"
	"github.com/scanner-research/scanner-gke/internal/platform/aws"
	"github.com/scanner-research/scanner-gke/internal/util/prerequisites"
)

// DoctorCheck is the result of one environment check.
type DoctorCheck struct {
	Section  string
	Name     string
	OK       bool
	Required bool
	Detail   string
}

// Factory function variables for doctor - can be replaced in tests.
var (
	checkTools = prerequisites.CheckAll

	findGoogleCredentials = func(ctx context.Context) (string, error) {
		creds, err := google.FindDefaultCredentials(ctx, container.CloudPlatformScope)
		if err != nil {
			return "", err
		}
		return creds.ProjectID, nil
	}

	loadStorageCredentials = aws.LoadStorageCredentials
	checkBucket            = aws.CheckBucket
	currentKubeContext     = func() (string, error) { return k8s.CurrentContext("") }
)

// Doctor handles the doctor command. It returns an error when a required
// check fails.
func Doctor(ctx context.Context, configPath string) error {
	checks := runDoctorChecks(ctx, configPath)

	if _, err := io.WriteString(statusOutput, renderDoctor(checks, isInteractive())); err != nil {
		return err
	}

	var failed []string
	for _, c := range checks {
		if c.Required && !c.OK {
			failed = append(failed, c.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("doctor found problems: %s", strings.Join(failed, ", "))
	}
	return nil
}

func runDoctorChecks(ctx context.Context, configPath string) []DoctorCheck {
	var checks []DoctorCheck

	tools := checkTools()
	for _, r := range tools.Results {
		c := DoctorCheck{Section: "Tools", Name: r.Tool.Name, OK: r.Found, Required: r.Tool.Required}
		if r.Found {
			c.Detail = strings.TrimSpace(r.Path + " " + r.Version)
		} else {
			c.Detail = "not found, see " + r.Tool.InstallURL
		}
		checks = append(checks, c)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return append(checks, DoctorCheck{Section: "Configuration", Name: "config", Required: true, Detail: err.Error()})
	}
	checks = append(checks, DoctorCheck{
		Section: "Configuration", Name: "config", OK: true, Required: true,
		Detail: fmt.Sprintf("cluster %s in %s/%s", cfg.ClusterID, cfg.Project, cfg.Zone),
	})

	checks = append(checks, googleCheck(ctx, cfg))
	checks = append(checks, storageChecks(ctx, cfg)...)
	checks = append(checks, kubeContextCheck(cfg))

	return checks
}

func googleCheck(ctx context.Context, cfg *config.Config) DoctorCheck {
	c := DoctorCheck{Section: "Credentials", Name: "google", Required: true}
	project, err := findGoogleCredentials(ctx)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	c.Detail = "application default credentials found"
	if project != "" && project != cfg.Project {
		c.Detail = fmt.Sprintf("credentials belong to project %s, config uses %s", project, cfg.Project)
	}
	return c
}

func storageChecks(ctx context.Context, cfg *config.Config) []DoctorCheck {
	creds := DoctorCheck{Section: "Credentials", Name: "aws", Required: true}
	keys, err := loadStorageCredentials(ctx)
	if err != nil {
		creds.Detail = err.Error()
		return []DoctorCheck{creds}
	}
	creds.OK = true
	creds.Detail = "storage key pair found"

	if cfg.StorageBucket == "" {
		return []DoctorCheck{creds}
	}

	bucket := DoctorCheck{Section: "Credentials", Name: "bucket", Required: true}
	if err := checkBucket(ctx, keys, cfg.StorageBucket, cfg.StorageRegion); err != nil {
		bucket.Detail = err.Error()
		if errors.Is(err, aws.ErrBucketNotFound) {
			bucket.Detail = fmt.Sprintf("bucket %s does not exist in %s", cfg.StorageBucket, cfg.StorageRegion)
		}
	} else {
		bucket.OK = true
		bucket.Detail = cfg.StorageBucket + " reachable"
	}
	return []DoctorCheck{creds, bucket}
}

// kubeContextCheck is informational: create fetches credentials itself.
func kubeContextCheck(cfg *config.Config) DoctorCheck {
	c := DoctorCheck{Section: "Kubernetes", Name: "context"}
	current, err := currentKubeContext()
	switch {
	case err != nil:
		c.Detail = err.Error()
	case current != cfg.KubeContext():
		c.Detail = fmt.Sprintf("current context is %q, run get-credentials to switch to %q", current, cfg.KubeContext())
	default:
		c.OK = true
		c.Detail = current
	}
	return c
}

func renderDoctor(checks []DoctorCheck, styled bool) string {
	var b strings.Builder

	title := "scanner-gke doctor"
	if styled {
		title = titleStyle.Render(title)
	}
	b.WriteString(title + "\n")

	section := ""
	for _, c := range checks {
		if c.Section != section {
			section = c.Section
			header := "\n" + section
			if styled {
				header = "\n" + sectionStyle.Render(section)
			}
			b.WriteString(header + "\n")
		}

		detail := c.Detail
		if styled {
			detail = dimStyle.Render(detail)
		}
		suffix := ""
		if !c.OK && !c.Required {
			suffix = " (optional)"
		}
		fmt.Fprintf(&b, "  %s %s%s: %s\n", mark(c.OK, styled), c.Name, suffix, detail)
	}

	return b.String()
}
