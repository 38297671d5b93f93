package paths

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// ObjectURI builds the s3:// URI of a stored object.
func ObjectURI(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}

// ParseObjectURI extracts bucket and key from an s3:// URI or an HTTPS
// object URL in virtual-hosted or path style.
func ParseObjectURI(raw string) (bucket, key string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", fmt.Errorf("%w: %q: %v", domain.ErrInvalidKeyFormat, raw, err)
	}

	switch u.Scheme {
	case "s3":
		bucket = u.Host
		key = strings.TrimPrefix(u.Path, "/")
	case "https", "http":
		host := strings.ToLower(u.Hostname())
		p := strings.TrimPrefix(u.Path, "/")
		switch {
		case strings.HasPrefix(host, "s3.") || strings.HasPrefix(host, "s3-") || host == "s3.amazonaws.com":
			bucket, key, _ = strings.Cut(p, "/")
		case strings.Contains(host, ".s3.") || strings.Contains(host, ".s3-"):
			bucket = host[:strings.Index(host, ".s3")]
			key = p
		default:
			return "", "", fmt.Errorf("%w: %q is not an object storage URL", domain.ErrInvalidKeyFormat, raw)
		}
	default:
		return "", "", fmt.Errorf("%w: unsupported scheme in %q", domain.ErrInvalidKeyFormat, raw)
	}

	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q has no bucket or key", domain.ErrInvalidKeyFormat, raw)
	}
	return bucket, key, nil
}

// BucketName normalizes a bucket reference given as a plain name, an
// s3://name/prefix URI or an arn:aws:s3:::name ARN.
func BucketName(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.Index(ref, ":::"); i >= 0 {
		ref = ref[i+3:]
	}
	ref = strings.TrimPrefix(ref, "s3://")
	name, _, _ := strings.Cut(ref, "/")
	return name
}
