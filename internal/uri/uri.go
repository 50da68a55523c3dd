// Package uri normalizes IPFS references. Index rows and metadata documents
// store bare CIDs or ipfs:// URIs, the API and pipeline convert between
// those and gateway URLs.
package uri

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arcnft/marketplace-sync/internal/domain"
)

var (
	// CIDv0: base58btc sha2-256, always 46 chars starting with Qm
	cidV0Pattern = regexp.MustCompile(`^Qm[1-9A-HJ-NP-Za-km-z]{44}$`)
	// CIDv1: multibase prefix b followed by base32
	cidV1Pattern = regexp.MustCompile(`^b[a-z2-7]{20,}$`)
)

// ValidCID checks whether s looks like an IPFS content identifier
func ValidCID(s string) bool {
	return cidV0Pattern.MatchString(s) || cidV1Pattern.MatchString(s)
}

// ExtractCID pulls the CID out of an ipfs:// URI, a gateway URL, or a bare
// CID string. The path suffix after the CID, if any, is preserved in the
// second return value.
func ExtractCID(uri string) (string, string, error) {
	s := strings.TrimSpace(uri)

	if rest, ok := strings.CutPrefix(s, "ipfs://"); ok {
		return splitCIDPath(rest)
	}

	if idx := strings.Index(s, "/ipfs/"); idx >= 0 {
		return splitCIDPath(s[idx+len("/ipfs/"):])
	}

	return splitCIDPath(s)
}

func splitCIDPath(s string) (string, string, error) {
	cid := s
	path := ""
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		cid = s[:idx]
		path = s[idx:]
	}

	if !ValidCID(cid) {
		return "", "", fmt.Errorf("%w: %q", domain.ErrMalformedCID, cid)
	}

	return cid, path, nil
}

// IPFSURI returns the canonical ipfs:// form for a CID
func IPFSURI(cid string) string {
	return "ipfs://" + cid
}

// GatewayURL builds an HTTP URL for a CID on the given gateway
func GatewayURL(gateway string, cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", strings.TrimSuffix(gateway, "/"), cid)
}

// Normalize rewrites any IPFS reference to a URL on the given public
// gateway, so stored URLs do not depend on whichever gateway the writer
// happened to use. Non-IPFS URLs pass through unchanged.
func Normalize(uri string, publicGateway string) string {
	cid, path, err := ExtractCID(uri)
	if err != nil {
		return uri
	}

	return GatewayURL(publicGateway, cid) + path
}
