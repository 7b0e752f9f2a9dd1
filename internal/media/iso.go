package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/kdomanski/iso9660"
)

// labelRule derives a guest OS identity from an ISO volume label.
type labelRule struct {
	distro  string
	pattern *regexp.Regexp

	// version builds the version string from the submatches. Nil takes
	// the first capture group.
	version func(m []string) string
}

// labelRules covers the volume label conventions of the distributions
// the defaults tables know about. First match wins.
var labelRules = []labelRule{
	{distro: "fedora", pattern: regexp.MustCompile(`^Fedora[ -](\d+)`)},
	{distro: "ubuntu", pattern: regexp.MustCompile(`^Ubuntu(?:-Server)?[ -](\d+\.\d+)`)},
	{distro: "debian", pattern: regexp.MustCompile(`^Debian[ -](\d+\.\d+)`)},
	{distro: "centos", pattern: regexp.MustCompile(`^CentOS[ _-](\d+(?:\.\d+)?)`)},
	{distro: "rhel", pattern: regexp.MustCompile(`^RHEL[ _-](\d+(?:\.\d+)?)`)},
	{distro: "opensuse", pattern: regexp.MustCompile(`^openSUSE[ -](\d+\.\d+)`)},
	{
		distro:  "sles",
		pattern: regexp.MustCompile(`^SLES[ -]?(\d+)(?:[ -]?SP(\d+))?`),
		version: func(m []string) string {
			if m[2] != "" {
				return m[1] + "sp" + m[2]
			}
			return m[1]
		},
	},
	{
		distro:  "gentoo",
		pattern: regexp.MustCompile(`^Gentoo(?: Linux)?(?:[ -](\d+))?`),
		version: func(m []string) string {
			if m[1] == "" {
				return "unknown"
			}
			return m[1]
		},
	},
}

// identify maps a volume label to (distro, version). Labels outside the
// known conventions come back as unknown rather than failing: unlabeled
// media is still perfectly bootable.
func identify(label string) (string, string) {
	for _, rule := range labelRules {
		m := rule.pattern.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		if rule.version != nil {
			return rule.distro, rule.version(m)
		}
		return rule.distro, m[1]
	}
	return "unknown", "unknown"
}

// ISOProber identifies the guest OS advertised by ISO9660 install media.
type ISOProber struct {
	// Client performs range requests for remote media. Nil uses a
	// client with a conservative timeout.
	Client *http.Client
}

func NewISOProber() *ISOProber {
	return &ISOProber{Client: &http.Client{Timeout: 30 * time.Second}}
}

// ProbeMedia reads the primary volume descriptor of the media at path,
// which is either a local file or an http(s) URL, and derives the guest
// OS from its volume label.
func (p *ISOProber) ProbeMedia(ctx context.Context, path string) (string, string, error) {
	label, err := p.volumeLabel(ctx, path)
	if err != nil {
		return "", "", err
	}
	distro, version := identify(strings.TrimSpace(label))
	return distro, version, nil
}

func (p *ISOProber) volumeLabel(ctx context.Context, path string) (string, error) {
	if strings.HasPrefix(path, "/") {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return readLabel(f)
	}

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return readLabel(&httpReaderAt{ctx: ctx, client: client, url: path})
}

func readLabel(ra io.ReaderAt) (string, error) {
	img, err := iso9660.OpenImage(ra)
	if err != nil {
		return "", fmt.Errorf("failed to open ISO image: %w", err)
	}
	label, err := img.Label()
	if err != nil {
		return "", fmt.Errorf("failed to read ISO volume label: %w", err)
	}
	return label, nil
}
