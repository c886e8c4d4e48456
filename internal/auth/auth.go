// Package auth authenticates callers by an ed25519 signature over the
// request. The verified signer is the caller identity handed to the vault.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/cyphera/cyphera-vault/internal/address"
	"github.com/cyphera/cyphera-vault/internal/constants"
	"github.com/cyphera/cyphera-vault/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrMissingSignature = errors.New("missing signature headers")
	ErrInvalidSigner    = errors.New("invalid signer")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrStaleRequest     = errors.New("request timestamp outside the allowed window")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrReplayedRequest  = errors.New("request signature already used")

	ErrReplayUnavailable = errors.New("replay check unavailable")
)

const callerKey = "caller"

// CanonicalRequest is the message a caller signs:
// METHOD \n REQUEST-URI \n UNIX-SECONDS \n hex(sha256(body)).
func CanonicalRequest(method, requestURI string, timestamp int64, body []byte) []byte {
	digest := sha256.Sum256(body)
	return []byte(strings.Join([]string{
		strings.ToUpper(method),
		requestURI,
		strconv.FormatInt(timestamp, 10),
		hex.EncodeToString(digest[:]),
	}, "\n"))
}

// SignRequest sets the signature headers on req for keypair at now.
func SignRequest(req *http.Request, keypair *address.Keypair, now time.Time) error {
	body, err := middleware.ReadBody(req)
	if err != nil {
		return err
	}
	timestamp := now.Unix()
	sig := keypair.Sign(CanonicalRequest(req.Method, req.URL.RequestURI(), timestamp, body))

	req.Header.Set(constants.SignerHeader, keypair.Public.String())
	req.Header.Set(constants.TimestampHeader, strconv.FormatInt(timestamp, 10))
	req.Header.Set(constants.SignatureHeader, base58.Encode(sig))
	return nil
}

// Verifier checks request signatures and accepts each one once.
type Verifier struct {
	maxSkew time.Duration
	replay  ReplayGuard
	now     func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithReplayGuard shares accepted signatures through guard, such as a
// database table seen by every instance.
func WithReplayGuard(guard ReplayGuard) VerifierOption {
	return func(v *Verifier) {
		v.replay = guard
	}
}

// NewVerifier accepts timestamps within maxSkew of the current time. Without
// WithReplayGuard, used signatures are remembered in memory.
func NewVerifier(maxSkew time.Duration, opts ...VerifierOption) *Verifier {
	v := &Verifier{maxSkew: maxSkew, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	if v.replay == nil {
		v.replay = NewMemoryReplayGuard()
	}
	return v
}

type cleaner interface {
	StartCleanup(ctx context.Context, interval time.Duration)
}

// StartCleanup evicts expired claims every interval until ctx is done, for
// guards that support it.
func (v *Verifier) StartCleanup(ctx context.Context, interval time.Duration) {
	if guard, ok := v.replay.(cleaner); ok {
		guard.StartCleanup(ctx, interval)
	}
}

// Verify returns the signer of req. The body is left readable.
func (v *Verifier) Verify(req *http.Request) (address.Identity, error) {
	signer := req.Header.Get(constants.SignerHeader)
	timestamp := req.Header.Get(constants.TimestampHeader)
	signature := req.Header.Get(constants.SignatureHeader)
	if signer == "" || timestamp == "" || signature == "" {
		return address.Zero, ErrMissingSignature
	}

	caller, err := address.ParseIdentity(signer)
	if err != nil {
		return address.Zero, ErrInvalidSigner
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return address.Zero, ErrInvalidTimestamp
	}
	now := v.now()
	signedAt := time.Unix(ts, 0)
	skew := now.Sub(signedAt)
	if skew > v.maxSkew || skew < -v.maxSkew {
		return address.Zero, ErrStaleRequest
	}

	body, err := middleware.ReadBody(req)
	if err != nil {
		return address.Zero, err
	}
	sig := base58.Decode(signature)
	if !address.Verify(caller, CanonicalRequest(req.Method, req.URL.RequestURI(), ts, body), sig) {
		return address.Zero, ErrInvalidSignature
	}

	// a signature stops verifying once its timestamp is maxSkew old
	fresh, err := v.replay.Claim(req.Context(), caller, base58.Encode(sig), now, signedAt.Add(v.maxSkew+time.Second))
	if err != nil {
		return address.Zero, fmt.Errorf("%w: %v", ErrReplayUnavailable, err)
	}
	if !fresh {
		return address.Zero, ErrReplayedRequest
	}
	return caller, nil
}

// RequireSignature authenticates every request and stores the caller in the
// Gin context.
func (v *Verifier) RequireSignature() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := v.Verify(c.Request)
		if err != nil {
			middleware.LogWithCorrelationID(c.Request.Context()).Warn("Request signature rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("signer", c.GetHeader(constants.SignerHeader)),
				zap.Error(err),
			)
			status := http.StatusUnauthorized
			switch {
			case errors.Is(err, middleware.ErrBodyTooLarge):
				status = http.StatusRequestEntityTooLarge
			case errors.Is(err, ErrReplayUnavailable):
				status = http.StatusServiceUnavailable
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFromContext returns the authenticated caller.
func CallerFromContext(c *gin.Context) (address.Identity, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return address.Zero, false
	}
	caller, ok := value.(address.Identity)
	return caller, ok
}
