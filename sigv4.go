package aisuite

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// awsCredentials holds the static credential triple used to sign Bedrock
// requests.
type awsCredentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// sigV4Signer signs requests with AWS Signature Version 4 for a fixed
// region/service pair.
type sigV4Signer struct {
	creds   awsCredentials
	region  string
	service string
}

// Sign adds SigV4 headers to req for the given body. The now parameter
// allows deterministic signing in tests.
func (s *sigV4Signer) Sign(req *http.Request, body []byte, now time.Time) {
	dateStamp := now.Format("20060102")
	amzDate := now.Format("20060102T150405Z")

	req.Header.Set("x-amz-date", amzDate)
	if s.creds.SessionToken != "" {
		req.Header.Set("x-amz-security-token", s.creds.SessionToken)
	}

	payloadHash := sha256Hex(body)
	req.Header.Set("x-amz-content-sha256", payloadHash)

	canonHeaders, signedHeaders := s.canonicalHeaders(req)
	canonicalRequest := strings.Join([]string{
		req.Method,
		s.canonicalPath(req.URL),
		s.canonicalQuery(req.URL),
		canonHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := fmt.Sprintf("%s/%s/%s/aws4_request", dateStamp, s.region, s.service)
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		scope,
		sha256Hex([]byte(canonicalRequest)),
	}, "\n")

	signature := hex.EncodeToString(hmacSHA256(s.signingKey(dateStamp), []byte(stringToSign)))
	req.Header.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		s.creds.AccessKeyID, scope, signedHeaders, signature,
	))
}

func (s *sigV4Signer) signingKey(dateStamp string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+s.creds.SecretAccessKey), []byte(dateStamp))
	kRegion := hmacSHA256(kDate, []byte(s.region))
	kService := hmacSHA256(kRegion, []byte(s.service))
	return hmacSHA256(kService, []byte("aws4_request"))
}

// canonicalPath percent-encodes each path segment using the SigV4
// unreserved set. Go's EscapedPath leaves characters like ':' alone, which
// AWS treats as reserved, so segments are re-encoded explicitly.
func (s *sigV4Signer) canonicalPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	segments := strings.Split(u.Path, "/")
	for i, seg := range segments {
		segments[i] = sigV4Encode(seg)
	}
	return strings.Join(segments, "/")
}

func (s *sigV4Signer) canonicalQuery(u *url.URL) string {
	params := u.Query()
	if len(params) == 0 {
		return ""
	}
	var parts []string
	for key, values := range params {
		for _, val := range values {
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(val))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}

func (s *sigV4Signer) canonicalHeaders(req *http.Request) (string, string) {
	headers := make(map[string]string)
	var names []string

	for name, values := range req.Header {
		lower := strings.ToLower(name)
		if lower == "authorization" {
			continue
		}
		headers[lower] = strings.TrimSpace(strings.Join(values, ","))
		names = append(names, lower)
	}

	// Go keeps the host on req.Host rather than in req.Header.
	if _, exists := headers["host"]; !exists {
		host := req.Host
		if host == "" {
			host = req.URL.Host
		}
		headers["host"] = host
		names = append(names, "host")
	}

	sort.Strings(names)

	var canonical strings.Builder
	for _, name := range names {
		canonical.WriteString(name)
		canonical.WriteByte(':')
		canonical.WriteString(headers[name])
		canonical.WriteByte('\n')
	}
	return canonical.String(), strings.Join(names, ";")
}

// sigV4Encode percent-encodes every byte outside the SigV4 unreserved set
// A-Z a-z 0-9 - . _ ~.
func sigV4Encode(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			buf.WriteByte(c)
		} else {
			fmt.Fprintf(&buf, "%%%02X", c)
		}
	}
	return buf.String()
}

func sha256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}
