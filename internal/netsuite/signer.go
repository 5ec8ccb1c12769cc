package netsuite

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/quotesync/internal/netsuite/domain"
)

// signer produces OAuth 1.0a request signatures (HMAC-SHA256) for NetSuite
// token-based authentication. Every call gets a fresh nonce and timestamp, so
// a captured signature cannot be replayed against another request.
type signer struct {
	creds domain.Credentials
	nonce func() string
	now   func() time.Time
}

func newSigner(creds domain.Credentials) *signer {
	return &signer{
		creds: creds,
		nonce: randomNonce,
		now:   time.Now,
	}
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("netsuite: nonce source failed: %v", err))
	}
	return hex.EncodeToString(buf)
}

// AuthorizationHeader signs one request and returns the OAuth header value.
// rawURL must include the query string exactly as it will be sent.
func (s *signer) AuthorizationHeader(method, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.creds.ConsumerKey,
		"oauth_token":            s.creds.TokenID,
		"oauth_signature_method": "HMAC-SHA256",
		"oauth_timestamp":        strconv.FormatInt(s.now().Unix(), 10),
		"oauth_nonce":            s.nonce(),
		"oauth_version":          "1.0",
	}

	signature := s.sign(method, parsed, oauthParams)

	var b strings.Builder
	fmt.Fprintf(&b, "OAuth realm=%q", s.creds.AccountID)
	for _, key := range []string{
		"oauth_consumer_key",
		"oauth_token",
		"oauth_signature_method",
		"oauth_timestamp",
		"oauth_nonce",
		"oauth_version",
	} {
		fmt.Fprintf(&b, ", %s=%q", key, oauthParams[key])
	}
	fmt.Fprintf(&b, ", oauth_signature=%q", percentEncode(signature))
	return b.String(), nil
}

// sign builds the RFC 5849 signature base string and MACs it with the
// consumer and token secrets.
func (s *signer) sign(method string, u *url.URL, oauthParams map[string]string) string {
	pairs := make([][2]string, 0, len(oauthParams)+8)
	for key, values := range u.Query() {
		for _, value := range values {
			pairs = append(pairs, [2]string{percentEncode(key), percentEncode(value)})
		}
	}
	for key, value := range oauthParams {
		pairs = append(pairs, [2]string{percentEncode(key), percentEncode(value)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	encoded := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		encoded = append(encoded, pair[0]+"="+pair[1])
	}

	baseURL := u.Scheme + "://" + u.Host + u.EscapedPath()
	base := strings.ToUpper(method) +
		"&" + percentEncode(baseURL) +
		"&" + percentEncode(strings.Join(encoded, "&"))

	key := percentEncode(s.creds.ConsumerSecret) + "&" + percentEncode(s.creds.TokenSecret)
	mac := hmac.New(sha256.New, []byte(key))
	_, _ = mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// percentEncode implements RFC 3986 encoding as required by OAuth 1.0a;
// url.QueryEscape is not usable here because it emits '+' for spaces.
func percentEncode(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= 'A' && c <= 'Z',
			c >= 'a' && c <= 'z',
			c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
