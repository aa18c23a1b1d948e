package metadata

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// DataURIPrefix is the scheme prefix the contract puts in front of the
// base64 encoded metadata
const DataURIPrefix = "data:application/json;base64,"

// Decoder parses token metadata carried in a mint event
type Decoder struct {
	gateway string
}

// NewDecoder creates a decoder that rewrites ipfs:// images through the
// configured gateway
func NewDecoder(cfg *config.RuntimeConfig) *Decoder {
	gateway := cfg.IPFSGateway
	if gateway == "" {
		gateway = config.DefaultIPFSGateway
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return &Decoder{gateway: gateway}
}

// Decode accepts a base64 JSON data URI or a bare JSON object
func (d *Decoder) Decode(payload string) (*domain.TokenMetadata, string, error) {
	raw, err := d.unwrap(strings.TrimSpace(payload))
	if err != nil {
		return nil, "", err
	}

	var meta domain.TokenMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, "", fmt.Errorf("%w: metadata is not valid JSON: %w", domain.ErrDecodeFailure, err)
	}
	return &meta, d.resolveImage(meta.Image), nil
}

func (d *Decoder) unwrap(payload string) ([]byte, error) {
	switch {
	case strings.HasPrefix(payload, DataURIPrefix):
		encoded := strings.TrimPrefix(payload, DataURIPrefix)
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			// Some contracts drop the padding
			raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 metadata: %w", domain.ErrDecodeFailure, err)
		}
		return raw, nil
	case strings.HasPrefix(payload, "{"):
		return []byte(payload), nil
	case payload == "":
		return nil, fmt.Errorf("%w: empty metadata payload", domain.ErrDecodeFailure)
	default:
		return nil, fmt.Errorf("%w: unsupported metadata payload %q", domain.ErrDecodeFailure, truncate(payload, 40))
	}
}

// resolveImage keeps data: and http(s) references and maps ipfs:// through
// the gateway
func (d *Decoder) resolveImage(image string) string {
	if rest, ok := strings.CutPrefix(image, "ipfs://"); ok {
		rest = strings.TrimPrefix(rest, "ipfs/")
		return d.gateway + rest
	}
	return image
}

// truncate keeps at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

var _ usecase.MetadataDecoder = (*Decoder)(nil)
